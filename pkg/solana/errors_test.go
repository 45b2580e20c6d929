package solana

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func decodeRaw(t *testing.T, s string) interface{} {
	var raw interface{}
	require.NoError(t, json.NewDecoder(bytes.NewBufferString(s)).Decode(&raw))
	return raw
}

func TestParseTransactionError(t *testing.T) {
	e, err := ParseTransactionError(decodeRaw(t, `{"InstructionError":[2,{"Custom":3}]}`))
	require.NoError(t, err)

	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	require.NotNil(t, e.InstructionError())
	assert.Equal(t, 2, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorCustom, e.InstructionError().ErrorKey())
	require.NotNil(t, e.InstructionError().CustomError())
	assert.Equal(t, CustomError(3), *e.InstructionError().CustomError())

	e, err = ParseTransactionError(decodeRaw(t, `{"InstructionError":[0,"AccountAlreadyInitialized"]}`))
	require.NoError(t, err)

	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	require.NotNil(t, e.InstructionError())
	assert.Equal(t, 0, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorAccountAlreadyInitialized, e.InstructionError().ErrorKey())
	assert.Nil(t, e.InstructionError().CustomError())

	e, err = ParseTransactionError(decodeRaw(t, `"DuplicateSignature"`))
	require.NoError(t, err)

	assert.Equal(t, TransactionErrorDuplicateSignature, e.ErrorKey())
	assert.Nil(t, e.InstructionError())

	e, err = ParseTransactionError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)

	_, err = ParseTransactionError(decodeRaw(t, `{"A":1,"B":2}`))
	assert.Error(t, err)

	_, err = ParseTransactionError(decodeRaw(t, `{"InstructionError":[0]}`))
	assert.Error(t, err)
}

func TestParseRPCError(t *testing.T) {
	e, err := ParseRPCError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)

	e, err = ParseRPCError(&jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed",
		Data: map[string]interface{}{
			"err": decodeRaw(t, `"BlockhashNotFound"`),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, TransactionErrorBlockhashNotFound, e.ErrorKey())

	_, err = ParseRPCError(&jsonrpc.RPCError{Code: -32002, Data: "unexpected"})
	assert.Error(t, err)
}

func TestNewTransactionError(t *testing.T) {
	e := NewTransactionError(TransactionErrorAccountNotFound)
	assert.Equal(t, TransactionErrorAccountNotFound, e.ErrorKey())
	assert.Equal(t, "AccountNotFound", e.Error())
}

func TestParseJSONNumber(t *testing.T) {
	tc := []interface{}{
		"1",
		1.0,
		json.Number("1"),
	}
	for i, c := range tc {
		v, err := parseJSONNumber(c)
		assert.NoError(t, err)
		assert.Equal(t, 1, v, i)
	}

	_, err := parseJSONNumber(true)
	assert.Error(t, err)
}
