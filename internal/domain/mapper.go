package domain

import "fmt"

const SettlementStatusSuccessful = "successful"

// ParseChannelRequest decodes an inbound body. A body that is not JSON or has
// a mistyped field fails here; missing fields are left for MapProviderRequest.
// Keys must match exactly, so "PAYER" is an unknown field, not the payer.
func ParseChannelRequest(body []byte) (ChannelRequest, error) {
	req, err := decodeChannelRequest(body)
	if err != nil {
		return ChannelRequest{}, NewStageError(StageIntake, ErrMalformedRequest, err)
	}
	return req, nil
}

func decodeChannelRequest(body []byte) (ChannelRequest, error) {
	root, err := decodeObject(body)
	if err != nil {
		return ChannelRequest{}, err
	}

	var req ChannelRequest
	if req.Payer, err = decodeParty(root, "payer"); err != nil {
		return ChannelRequest{}, err
	}
	if req.Payee, err = decodeParty(root, "payee"); err != nil {
		return ChannelRequest{}, err
	}

	amount, err := root.objectField("amount")
	if err != nil || amount == nil {
		return req, err
	}
	req.Amount = &Money{}
	if req.Amount.Amount, err = amount.int64Field("amount"); err != nil {
		return ChannelRequest{}, fmt.Errorf("amount.%w", err)
	}
	if req.Amount.Currency, err = amount.stringField("currency"); err != nil {
		return ChannelRequest{}, fmt.Errorf("amount.%w", err)
	}
	return req, nil
}

func decodeParty(root object, key string) (*Party, error) {
	party, err := root.objectField(key)
	if err != nil || party == nil {
		return nil, err
	}
	info, err := party.objectField("partyIdInfo")
	if err != nil {
		return nil, fmt.Errorf("%s.%w", key, err)
	}
	if info == nil {
		return &Party{}, nil
	}
	id, err := info.stringField("partyIdentifier")
	if err != nil {
		return nil, fmt.Errorf("%s.partyIdInfo.%w", key, err)
	}
	return &Party{PartyIDInfo: &PartyIDInfo{PartyIdentifier: id}}, nil
}

// MapProviderRequest builds the Pesacore payload. reference becomes the
// remoteTransactionId: the transaction id for verification, the receipt id for
// settlement.
func MapProviderRequest(req ChannelRequest, reference string) (ProviderRequest, error) {
	switch {
	case req.Payer == nil || req.Payer.PartyIDInfo == nil || req.Payer.PartyIDInfo.PartyIdentifier == nil:
		return ProviderRequest{}, missingField("payer.partyIdInfo.partyIdentifier")
	case req.Payee == nil || req.Payee.PartyIDInfo == nil || req.Payee.PartyIDInfo.PartyIdentifier == nil:
		return ProviderRequest{}, missingField("payee.partyIdInfo.partyIdentifier")
	case req.Amount == nil || req.Amount.Amount == nil:
		return ProviderRequest{}, missingField("amount.amount")
	case req.Amount.Currency == nil:
		return ProviderRequest{}, missingField("amount.currency")
	}

	return ProviderRequest{
		RemoteTransactionID: reference,
		Amount:              *req.Amount.Amount,
		PhoneNumber:         *req.Payer.PartyIDInfo.PartyIdentifier,
		Currency:            *req.Amount.Currency,
		Account:             *req.Payee.PartyIDInfo.PartyIdentifier,
	}, nil
}

// ForSettlement returns a copy marked as a successful settlement carrying
// receiptID.
func (p ProviderRequest) ForSettlement(receiptID string) ProviderRequest {
	p.Status = SettlementStatusSuccessful
	p.ReceiptID = receiptID
	return p
}

func missingField(path string) error {
	return NewStageError(StageMapped, ErrMalformedRequest, fmt.Errorf("%s is missing", path))
}
