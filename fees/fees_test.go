package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_SendToMerchantClassIsFree(t *testing.T) {
	for _, amount := range []string{"0.01", "1", "100", "2500.75"} {
		res, err := Compute(OperationSend, "41234", dec(amount))
		require.NoError(t, err)
		assert.True(t, res.Fee.IsZero(), "amount %s", amount)
		assert.True(t, res.Total.Equal(dec(amount)), "amount %s", amount)
	}
}

func TestCompute_SendFlatFee(t *testing.T) {
	cases := []struct {
		recipient string
		amount    string
		total     string
	}{
		{"991234567", "50", "50.20"},
		{"912", "0.01", "0.21"},
		{"71234567", "10.80", "11.00"},
		{"", "3", "3.20"},
	}
	for _, c := range cases {
		res, err := Compute(OperationSend, c.recipient, dec(c.amount))
		require.NoError(t, err)
		assert.True(t, res.Fee.Equal(dec("0.20")), "recipient %q", c.recipient)
		assert.True(t, res.Total.Equal(dec(c.total)), "recipient %q: got %s", c.recipient, res.Total)
	}
}

func TestCompute_PayIsFree(t *testing.T) {
	res, err := Compute(OperationPay, "INV-778", dec("19.99"))
	require.NoError(t, err)
	assert.True(t, res.Fee.IsZero())
	assert.True(t, res.Total.Equal(dec("19.99")))
}

func TestCompute_CashoutPercentage(t *testing.T) {
	cases := []struct {
		amount, fee, total string
	}{
		{"100", "2", "102"},
		{"33.33", "0.67", "34.00"},
		{"0.10", "0", "0.10"},
		{"1234.56", "24.69", "1259.25"},
	}
	for _, c := range cases {
		res, err := Compute(OperationCashout, "", dec(c.amount))
		require.NoError(t, err)
		assert.True(t, res.Fee.Equal(dec(c.fee)), "amount %s: fee %s", c.amount, res.Fee)
		assert.True(t, res.Total.Equal(dec(c.total)), "amount %s: total %s", c.amount, res.Total)
		assert.False(t, res.Informational)
	}
}

func TestCompute_TopUpFeeIsInformational(t *testing.T) {
	for _, op := range []Operation{OperationTopUp, OperationRecharge} {
		res, err := Compute(op, "", dec("50"))
		require.NoError(t, err)
		assert.True(t, res.Informational)
		assert.True(t, res.Fee.Equal(dec("1")))
		assert.True(t, res.Total.Equal(dec("50")), "fee must not be added to the total")
	}
}

func TestCompute_UnknownOperation(t *testing.T) {
	_, err := Compute(Operation("teleport"), "", dec("1"))
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
