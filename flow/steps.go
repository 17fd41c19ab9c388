package flow

import "wallet-journeys/fees"

// Role is the actor a controller serves. Each role has its own dashboard.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleMerchant   Role = "merchant"
	RoleBackOffice Role = "backoffice"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleMerchant, RoleBackOffice:
		return true
	}
	return false
}

// JourneyKind names a multi-step user task.
type JourneyKind string

const (
	JourneyOnboarding JourneyKind = "onboarding"
	JourneyLogin      JourneyKind = "login"
	JourneySend       JourneyKind = "send"
	JourneyPay        JourneyKind = "pay"
	JourneyTopUp      JourneyKind = "topup"
	JourneyWithdraw   JourneyKind = "withdraw"
	JourneyCollect    JourneyKind = "collect"
	JourneyCashout    JourneyKind = "cashout"
)

// FlowStep identifies the current screen.
type FlowStep string

const (
	StepSelectionRoot       FlowStep = "SelectionRoot"
	StepOnboarding          FlowStep = "Onboarding"
	StepOnboardingOTP       FlowStep = "OnboardingOTP"
	StepOnboardingTerms     FlowStep = "OnboardingTerms"
	StepOnboardingDocuments FlowStep = "OnboardingDocuments"
	StepLogin               FlowStep = "Login"
	StepMerchantLogin       FlowStep = "MerchantLogin"
	StepLoginOTP            FlowStep = "LoginOTP"
	StepDashboard           FlowStep = "Dashboard"
	StepMerchantDashboard   FlowStep = "MerchantDashboard"
	StepBackOfficeDashboard FlowStep = "BackOfficeDashboard"
	StepSendEntry           FlowStep = "SendEntry"
	StepSendConfirm         FlowStep = "SendConfirm"
	StepPayEntry            FlowStep = "PayEntry"
	StepPayConfirm          FlowStep = "PayConfirm"
	StepTopUpEntry          FlowStep = "TopUpEntry"
	StepTopUpAgent          FlowStep = "TopUpAgent"
	StepTopUpBank           FlowStep = "TopUpBank"
	StepWithdrawEntry       FlowStep = "WithdrawEntry"
	StepWithdrawAgent       FlowStep = "WithdrawAgent"
	StepWithdrawBank        FlowStep = "WithdrawBank"
	StepQrCollect           FlowStep = "QrCollect"
	StepQrCode              FlowStep = "QrCode"
	StepCashoutEntry        FlowStep = "CashoutEntry"
	StepCashoutConfirm      FlowStep = "CashoutConfirm"
)

// IsVerification reports whether the step runs an OTP countdown.
func (s FlowStep) IsVerification() bool {
	return s == StepOnboardingOTP || s == StepLoginOTP
}

// journey is the static step graph of one journey kind.
type journey struct {
	kind      JourneyKind
	operation fees.Operation
	// roles may start the journey.
	roles map[Role]bool
	// preAuth journeys exit to the selection root instead of a dashboard.
	preAuth bool
	// prev maps every non-root step to its predecessor. Branch steps share
	// a predecessor.
	prev map[FlowStep]FlowStep
	// final lists the steps Complete is accepted on.
	final map[FlowStep]bool
}

func (j journey) first(role Role) FlowStep {
	switch j.kind {
	case JourneyOnboarding:
		return StepOnboarding
	case JourneyLogin:
		if role == RoleMerchant {
			return StepMerchantLogin
		}
		return StepLogin
	case JourneySend:
		return StepSendEntry
	case JourneyPay:
		return StepPayEntry
	case JourneyTopUp:
		return StepTopUpEntry
	case JourneyWithdraw:
		return StepWithdrawEntry
	case JourneyCollect:
		return StepQrCollect
	case JourneyCashout:
		return StepCashoutEntry
	}
	return StepSelectionRoot
}

func roles(r ...Role) map[Role]bool {
	m := make(map[Role]bool, len(r))
	for _, role := range r {
		m[role] = true
	}
	return m
}

func steps(s ...FlowStep) map[FlowStep]bool {
	m := make(map[FlowStep]bool, len(s))
	for _, step := range s {
		m[step] = true
	}
	return m
}

var journeys = map[JourneyKind]journey{
	JourneyOnboarding: {
		kind:      JourneyOnboarding,
		roles:     roles(RoleCustomer),
		operation: fees.OperationNone,
		preAuth:   true,
		prev: map[FlowStep]FlowStep{
			StepOnboardingOTP:       StepOnboarding,
			StepOnboardingTerms:     StepOnboardingOTP,
			StepOnboardingDocuments: StepOnboardingTerms,
		},
		final: steps(StepOnboardingDocuments),
	},
	JourneyLogin: {
		kind:      JourneyLogin,
		roles:     roles(RoleCustomer, RoleMerchant),
		operation: fees.OperationNone,
		preAuth:   true,
		// LoginOTP goes back to whichever login screen the role started on;
		// see Controller.previous.
		prev:  map[FlowStep]FlowStep{},
		final: steps(StepLoginOTP),
	},
	JourneySend: {
		kind:      JourneySend,
		roles:     roles(RoleCustomer),
		operation: fees.OperationSend,
		prev:      map[FlowStep]FlowStep{StepSendConfirm: StepSendEntry},
		final:     steps(StepSendConfirm),
	},
	JourneyPay: {
		kind:      JourneyPay,
		roles:     roles(RoleCustomer),
		operation: fees.OperationPay,
		prev:      map[FlowStep]FlowStep{StepPayConfirm: StepPayEntry},
		final:     steps(StepPayConfirm),
	},
	JourneyTopUp: {
		kind:      JourneyTopUp,
		roles:     roles(RoleCustomer),
		operation: fees.OperationTopUp,
		prev: map[FlowStep]FlowStep{
			StepTopUpAgent: StepTopUpEntry,
			StepTopUpBank:  StepTopUpEntry,
		},
		final: steps(StepTopUpAgent, StepTopUpBank),
	},
	JourneyWithdraw: {
		kind:      JourneyWithdraw,
		roles:     roles(RoleCustomer),
		operation: fees.OperationWithdraw,
		prev: map[FlowStep]FlowStep{
			StepWithdrawAgent: StepWithdrawEntry,
			StepWithdrawBank:  StepWithdrawEntry,
		},
		final: steps(StepWithdrawAgent, StepWithdrawBank),
	},
	JourneyCollect: {
		kind:      JourneyCollect,
		roles:     roles(RoleMerchant),
		operation: fees.OperationCollect,
		prev:      map[FlowStep]FlowStep{StepQrCode: StepQrCollect},
		final:     steps(StepQrCode),
	},
	JourneyCashout: {
		kind:      JourneyCashout,
		roles:     roles(RoleBackOffice),
		operation: fees.OperationCashout,
		prev:      map[FlowStep]FlowStep{StepCashoutConfirm: StepCashoutEntry},
		final:     steps(StepCashoutConfirm),
	},
}

// Dashboard returns the home step of a signed-in role.
func Dashboard(role Role) FlowStep {
	switch role {
	case RoleMerchant:
		return StepMerchantDashboard
	case RoleBackOffice:
		return StepBackOfficeDashboard
	}
	return StepDashboard
}
