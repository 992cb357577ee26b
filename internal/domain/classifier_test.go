package domain

import (
	"errors"
	"testing"
)

func TestClassifyVerification(t *testing.T) {
	if ClassifyVerification(200) {
		t.Error("Expected 200 to be a successful lookup")
	}

	for _, status := range []int{0, 201, 204, 302, 400, 401, 404, 500, 503} {
		if !ClassifyVerification(status) {
			t.Errorf("Expected status %d to be a failed lookup", status)
		}
	}
}

func TestClassifySettlement(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantFailed bool
	}{
		{"confirmed", 200, `{"status":"CONFIRMED"}`, false},
		{"confirmed with extra fields", 200, `{"status":"CONFIRMED","reference":"abc"}`, false},
		{"other case key does not override", 200, `{"status":"CONFIRMED","STATUS":"PENDING"}`, false},
		{"other case key does not confirm", 200, `{"status":"PENDING","Status":"CONFIRMED"}`, true},
		{"pending", 200, `{"status":"PENDING"}`, true},
		{"lower case is not confirmed", 200, `{"status":"confirmed"}`, true},
		{"server error ignores body", 500, `not json at all`, true},
		{"server error with confirmed body", 500, `{"status":"CONFIRMED"}`, true},
		{"not found", 404, ``, true},
		{"created is not ok", 201, `{"status":"CONFIRMED"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failed, err := ClassifySettlement(tt.status, []byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if failed != tt.wantFailed {
				t.Errorf("Expected failed=%v, got %v", tt.wantFailed, failed)
			}
		})
	}
}

func TestClassifySettlementMalformedResponse(t *testing.T) {
	for name, body := range map[string]string{
		"empty":          ``,
		"not json":       `<html>ok</html>`,
		"no status":      `{"state":"CONFIRMED"}`,
		"null status":    `{"status":null}`,
		"numeric status": `{"status":1}`,
		"null body":      `null`,
		"title case key": `{"Status":"CONFIRMED"}`,
		"upper case key": `{"STATUS":"CONFIRMED"}`,
		"array body":     `[{"status":"CONFIRMED"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ClassifySettlement(200, []byte(body))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("Expected ErrMalformedResponse, got %v", err)
			}
			if stage, _ := StageOf(err); stage != StageClassified {
				t.Errorf("Expected stage %s, got %s", StageClassified, stage)
			}
		})
	}
}
