package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"wallet-journeys/flow"
	"wallet-journeys/gate"
	"wallet-journeys/shared"
	"wallet-journeys/workflows"
)

// prompt asks for one form value.
type prompt struct {
	label string
	set   func(f *shared.Form, v string)
}

var amountPrompt = prompt{"Amount", func(f *shared.Form, v string) { f.Amount = v }}

// stepPrompts lists what each entry step asks for.
var stepPrompts = map[flow.FlowStep][]prompt{
	flow.StepSendEntry: {
		{"Recipient (merchant IDs start with 4)", func(f *shared.Form, v string) { f.Recipient = v }},
		amountPrompt,
	},
	flow.StepPayEntry: {
		{"Payment reference", func(f *shared.Form, v string) { f.Reference = v }},
		amountPrompt,
	},
	flow.StepTopUpEntry: {
		{"Method (agent/bank)", func(f *shared.Form, v string) { f.Method = v }},
		amountPrompt,
	},
	flow.StepWithdrawEntry: {
		{"Method (agent/bank)", func(f *shared.Form, v string) { f.Method = v }},
		amountPrompt,
	},
	flow.StepWithdrawAgent: {
		{"Agent code", func(f *shared.Form, v string) { f.AgentCode = v }},
	},
	flow.StepWithdrawBank: {
		{"Account number", func(f *shared.Form, v string) { f.AccountNumber = v }},
	},
	flow.StepQrCollect: {amountPrompt},
	flow.StepCashoutEntry: {
		{"Account number", func(f *shared.Form, v string) { f.AccountNumber = v }},
		amountPrompt,
	},
	flow.StepOnboarding: {
		{"Phone number", func(f *shared.Form, v string) { f.Phone = v }},
	},
	flow.StepLogin: {
		{"Phone number", func(f *shared.Form, v string) { f.Phone = v }},
		{"PIN", func(f *shared.Form, v string) { f.PIN = v }},
	},
	flow.StepMerchantLogin: {
		{"Merchant phone number", func(f *shared.Form, v string) { f.Phone = v }},
		{"PIN", func(f *shared.Form, v string) { f.PIN = v }},
	},
	flow.StepOnboardingOTP: {
		{"6-digit code", func(f *shared.Form, v string) { f.Code = v }},
	},
	flow.StepLoginOTP: {
		{"6-digit code", func(f *shared.Form, v string) { f.Code = v }},
	},
	flow.StepOnboardingTerms: {
		{"Accept terms (y/n)", func(f *shared.Form, v string) { f.Accept = strings.EqualFold(v, "y") }},
	},
	flow.StepOnboardingDocuments: {
		{"Document type (passport/nationalId/driversLicense)", func(f *shared.Form, v string) { f.DocumentType = v }},
		{"Document number (digits only to pass KYC)", func(f *shared.Form, v string) { f.DocumentID = v }},
	},
}

type session struct {
	c          client.Client
	workflowID string
	reader     *bufio.Reader
	state      shared.SessionState
}

func main() {
	role := flow.RoleCustomer
	if len(os.Args) > 1 {
		role = flow.Role(os.Args[1])
	}
	if !role.Valid() {
		log.Fatalf("Unknown role %q: use customer, merchant or backoffice", role)
	}

	c, err := client.Dial(shared.ClientOptions())
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	sessionID := uuid.NewString()
	s := &session{
		c:          c,
		workflowID: shared.SessionWorkflowID(sessionID),
		reader:     bufio.NewReader(os.Stdin),
	}

	fmt.Println()
	fmt.Printf("🚀 Starting %s session %s\n", role, sessionID)

	we, err := c.ExecuteWorkflow(
		context.Background(),
		client.StartWorkflowOptions{
			ID:        s.workflowID,
			TaskQueue: shared.SessionWorkflowTaskQueue,
		},
		workflows.WalletSessionWorkflow,
		shared.SessionRequest{SessionID: sessionID, Role: role},
	)
	if err != nil {
		log.Fatalf("Unable to start workflow: %v", err)
	}
	fmt.Printf("   WorkflowID: %s\n", we.GetID())
	fmt.Printf("   RunID:      %s\n", we.GetRunID())
	s.refresh()

	for {
		s.printState()
		fmt.Println()
		fmt.Println("  [1] Start journey        [2] Fill in this step")
		fmt.Println("  [3] Back                 [4] Complete journey")
		fmt.Println("  [5] Resend code          [6] Scroll terms to the end")
		fmt.Println("  [7] Attach file          [8] Refresh")
		fmt.Println("  [9] End session          [0] Exit (session keeps running)")
		fmt.Println()
		fmt.Print("Choose: ")

		switch s.read() {
		case "1":
			journey := flow.JourneyKind(s.ask("Journey (onboarding/login/send/pay/topup/withdraw/collect/cashout)"))
			s.send(shared.SessionEvent{Type: shared.EventStart, Journey: journey})
		case "2":
			s.fillIn()
		case "3":
			s.send(shared.SessionEvent{Type: shared.EventBack})
		case "4":
			s.send(shared.SessionEvent{Type: shared.EventComplete, Journey: s.state.Journey})
		case "5":
			s.send(shared.SessionEvent{Type: shared.EventResend})
		case "6":
			s.send(shared.SessionEvent{
				Type:   shared.EventScroll,
				Scroll: gate.ScrollSample{Offset: 1000, Viewport: 1000, Content: 2000},
			})
		case "7":
			kind := flow.AttachTransferProof
			if s.state.Step == flow.StepOnboardingDocuments {
				kind = flow.AttachDocument
			}
			s.send(shared.SessionEvent{Type: shared.EventAttach, Attachment: kind})
		case "8":
			s.refresh()
		case "9":
			s.send(shared.SessionEvent{Type: shared.EventEnd})
			var summary shared.SessionSummary
			if err := we.Get(context.Background(), &summary); err != nil {
				log.Fatalf("Workflow failed: %v", err)
			}
			fmt.Printf("🏁 Session ended (%s), %d journeys completed\n", summary.EndReason, summary.Completed)
			return
		case "0":
			fmt.Println()
			fmt.Println("👋 Exiting CLI. The session ends on its own after 15 minutes idle.")
			return
		default:
			fmt.Println("❌ Invalid choice.")
		}
	}
}

func (s *session) read() string {
	line, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *session) ask(label string) string {
	fmt.Printf("%s: ", label)
	return s.read()
}

func (s *session) fillIn() {
	prompts, ok := stepPrompts[s.state.Step]
	if !ok {
		fmt.Printf("❌ Nothing to fill in on %s\n", s.state.Step)
		return
	}
	var form shared.Form
	for _, p := range prompts {
		p.set(&form, s.ask(p.label))
	}
	s.send(shared.SessionEvent{Type: shared.EventAdvance, Form: form})
}

// send signals one event and re-reads the session state.
func (s *session) send(ev shared.SessionEvent) {
	err := s.c.SignalWorkflow(context.Background(), s.workflowID, "", shared.SignalSessionEvent, ev)
	if err != nil {
		fmt.Printf("❌ Signal failed: %v\n", err)
		return
	}
	s.refresh()
}

func (s *session) refresh() {
	resp, err := s.c.QueryWorkflow(context.Background(), s.workflowID, "", shared.QuerySessionState)
	if err != nil {
		fmt.Printf("❌ Query failed: %v\n", err)
		return
	}
	if err := resp.Get(&s.state); err != nil {
		fmt.Printf("❌ Failed to decode state: %v\n", err)
	}
}

func (s *session) printState() {
	st := s.state
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  %s wallet · %s\n", st.Role, st.Step)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if st.Journey != "" {
		fmt.Printf("  Journey: %s\n", st.Journey)
	}

	keys := make([]string, 0, len(st.Fields))
	for k := range st.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("    %-16s %s\n", k, st.Fields[k])
	}

	if q := st.Quote; q != nil {
		label := "Fee"
		if q.Informational {
			label = "Fee (charged by provider)"
		}
		fmt.Printf("  %s: %s   Total: %s\n", label, q.Fee.StringFixed(2), q.Total.StringFixed(2))
	}
	if v := st.Verification; v != nil {
		if v.CanResend {
			fmt.Println("  ⏱  You can request a new code")
		} else {
			fmt.Printf("  ⏱  Resend available in %ds\n", v.RemainingSeconds)
		}
	}
	if e := st.LastError; e != nil {
		fmt.Printf("  ❌ %s\n", e.Message)
	}
	fmt.Printf("  Completed journeys: %d\n", st.Completed)
}
