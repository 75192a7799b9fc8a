package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/transactions/mocks"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandleRequest(t *testing.T) {
	// Arrange
	mockReconciler := new(mocks.Reconciler)
	mockReconciler.On("Reconcile", mock.Anything, "user-1").Return(&models.ReconciliationReport{AccountId: "user-1"}, nil)
	mockReconciler.On("Reconcile", mock.Anything, "user-2").Return(nil, errors.New("storage unavailable"))
	h := &reconciler{projector: mockReconciler, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m-1", Body: `{"account_id":"user-1"}`},
		{MessageId: "m-2", Body: `{"account_id":"user-2"}`},
		{MessageId: "m-3", Body: `garbage`},
	}}

	// Act
	resp, err := h.HandleRequest(context.Background(), event)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m-2"}}, resp.BatchItemFailures)
	mockReconciler.AssertExpectations(t)
}
