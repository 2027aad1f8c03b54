//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaiwat-s/ledger-api/internal/domain"
	"github.com/chaiwat-s/ledger-api/internal/integrationtest"
	"github.com/chaiwat-s/ledger-api/internal/test"
	"github.com/chaiwat-s/ledger-api/pkg/web"
)

func doRequest(t *testing.T, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) web.Response {
	t.Helper()

	var res web.Response
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))

	return res
}

type transactionBody struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	UserID int64   `json:"user_id,omitempty"`
}

func TestRecordAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB, "0")

	// Deposit 500 onto a zero balance.
	recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 500, Type: "deposit", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	res := decodeResponse(t, recorder)
	require.Equal(t, "success", res.Status)
	require.Equal(t, "500", res.Balance)

	// Withdrawing 600 exceeds the balance and leaves it unchanged.
	recorder = doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 600, Type: "withdraw", UserID: user.ID,
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, domain.ErrInsufficientBalance.Error(), decodeResponse(t, recorder).Message)

	recorder = doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&history))
	require.Len(t, history, 1)
	require.Equal(t, "500", history[0].Amount)
}

func TestRecordAPIValidation(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB, "0")

	testCases := []struct {
		name string
		body transactionBody
	}{
		{name: "MissingAmount", body: transactionBody{Type: "deposit", UserID: user.ID}},
		{name: "AmountAboveRange", body: transactionBody{Amount: 100001, Type: "deposit", UserID: user.ID}},
		{name: "UnknownType", body: transactionBody{Amount: 500, Type: "transfer", UserID: user.ID}},
		{name: "MissingUser", body: transactionBody{Amount: 500, Type: "deposit"}},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			recorder := doRequest(t, http.MethodPost, "/transaction", tc.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestHistoryAPIOrdering(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB, "0")

	for _, amount := range []float64{100, 200, 300} {
		recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
			Amount: amount, Type: "deposit", UserID: user.ID,
		})
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&history))
	require.Len(t, history, 3)

	// Newest first.
	require.Equal(t, "300", history[0].Amount)
	require.Equal(t, "200", history[1].Amount)
	require.Equal(t, "100", history[2].Amount)
}

func TestUpdateAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	// Balance 500 backed by a single 500 deposit.
	user := test.SeedUser(t, server.DB, "0")

	recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 500, Type: "deposit", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	historyRecorder := doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	require.Len(t, history, 1)

	transactionID := history[0].ID

	// Turning the deposit into a 100 withdrawal fails: the intermediate
	// balance after reversing the deposit is 0.
	recorder = doRequest(t, http.MethodPut, fmt.Sprintf("/transaction/%d", transactionID), transactionBody{
		Amount: 100, Type: "withdraw",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, domain.ErrInsufficientBalance.Error(), decodeResponse(t, recorder).Message)

	// Unchanged after the rejection.
	historyRecorder = doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	require.Equal(t, "500", history[0].Amount)
	require.Equal(t, domain.KindDeposit, history[0].Kind)

	// Correcting the deposit down to 200 succeeds.
	recorder = doRequest(t, http.MethodPut, fmt.Sprintf("/transaction/%d", transactionID), transactionBody{
		Amount: 200, Type: "deposit",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	res := decodeResponse(t, recorder)
	require.Equal(t, "success", res.Status)
	require.Equal(t, "200", res.Balance)
}

func TestDeleteAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	// Balance 500 of which 200 came from a deposit.
	user := test.SeedUser(t, server.DB, "300")

	recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 200, Type: "deposit", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	historyRecorder := doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	require.Len(t, history, 1)

	recorder = doRequest(t, http.MethodDelete, fmt.Sprintf("/transaction/%d", history[0].ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	res := decodeResponse(t, recorder)
	require.Equal(t, "success", res.Status)
	require.Equal(t, "300", res.Balance)
}

func TestDeleteAPIRestoresWithdrawal(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	// Baseline 200 with a 100 withdrawal leaving 100.
	user := test.SeedUser(t, server.DB, "200")

	recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 100, Type: "withdraw", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "100", decodeResponse(t, recorder).Balance)

	historyRecorder := doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	require.Len(t, history, 1)

	recorder = doRequest(t, http.MethodDelete, fmt.Sprintf("/transaction/%d", history[0].ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "200", decodeResponse(t, recorder).Balance)
}

func TestDeleteAPINegativeBalance(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB, "0")

	// Deposit 500 then withdraw 400; removing the deposit would leave -400.
	recorder := doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 500, Type: "deposit", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	historyRecorder := doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	var history []domain.Transaction
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	depositID := history[0].ID

	recorder = doRequest(t, http.MethodPost, "/transaction", transactionBody{
		Amount: 400, Type: "withdraw", UserID: user.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(t, http.MethodDelete, fmt.Sprintf("/transaction/%d", depositID), nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, domain.ErrNegativeBalance.Error(), decodeResponse(t, recorder).Message)

	// Balance and history unchanged.
	historyRecorder = doRequest(t, http.MethodGet, fmt.Sprintf("/transaction/history?user_id=%d", user.ID), nil)
	require.NoError(t, json.NewDecoder(historyRecorder.Body).Decode(&history))
	require.Len(t, history, 2)
}
