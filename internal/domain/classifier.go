package domain

import (
	"errors"
	"net/http"
)

const SettlementStatusConfirmed = "CONFIRMED"

// ClassifyVerification only looks at the status code.
func ClassifyVerification(statusCode int) bool {
	return statusCode != http.StatusOK
}

// ClassifySettlement reads the body only on a 200. A 200 whose body cannot be
// decoded or has no "status" key is ErrMalformedResponse, not a failed
// settlement. The key is matched exactly; "Status" does not count.
func ClassifySettlement(statusCode int, body []byte) (bool, error) {
	if statusCode != http.StatusOK {
		return true, nil
	}

	res, err := decodeObject(body)
	if err != nil {
		return false, NewStageError(StageClassified, ErrMalformedResponse, err)
	}
	status, err := res.stringField("status")
	if err != nil {
		return false, NewStageError(StageClassified, ErrMalformedResponse, err)
	}
	if status == nil {
		return false, NewStageError(StageClassified, ErrMalformedResponse, errors.New("status is missing"))
	}

	return *status != SettlementStatusConfirmed, nil
}
