package domain

import "time"

type Phase string

const (
	PhaseVerification Phase = "verification"
	PhaseSettlement   Phase = "settlement"
)

// ChannelRequest is the payment hub payload. Every leaf is a pointer so the
// mapper can tell a missing field from a zero value.
type ChannelRequest struct {
	Payer  *Party `json:"payer"`
	Payee  *Party `json:"payee"`
	Amount *Money `json:"amount"`
}

type Party struct {
	PartyIDInfo *PartyIDInfo `json:"partyIdInfo"`
}

type PartyIDInfo struct {
	PartyIdentifier *string `json:"partyIdentifier"`
}

type Money struct {
	Amount   *int64  `json:"amount"`
	Currency *string `json:"currency"`
}

// ProviderRequest is the body Pesacore expects on both endpoints.
// Status and ReceiptID are only set for settlement.
type ProviderRequest struct {
	RemoteTransactionID string `json:"remoteTransactionId"`
	Amount              int64  `json:"amount"`
	PhoneNumber         string `json:"phoneNumber"`
	Currency            string `json:"currency"`
	Account             string `json:"account"`
	Status              string `json:"status,omitempty"`
	ReceiptID           string `json:"receiptId,omitempty"`
}

type DispatchResponse struct {
	StatusCode int
	Body       []byte
}

// Outcome is what the orchestration layer receives once a pipeline has
// classified the downstream response.
type Outcome struct {
	TransactionID string    `json:"transactionId"`
	ExternalID    string    `json:"externalId,omitempty"`
	Phase         Phase     `json:"phase"`
	Failed        bool      `json:"failed"`
	DecidedAt     time.Time `json:"decidedAt"`
}
