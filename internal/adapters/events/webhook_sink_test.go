package events

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/usecase"
)

func TestWebhookSinkSuccess(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	secret := "test-secret"
	sink := NewWebhookSink(srv.URL, secret, 5*time.Second)

	event := usecase.SupplyContractUpdated{
		Application: domain.RecyclablesApplication{ID: 11, CompanyID: 7},
		CompanyName: "Vtor",
		Actor:       domain.Actor{ID: 3},
		Origin:      domain.OriginCompanyCard,
		Changes:     []string{"price - 50"},
	}

	if err := sink.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if name := gotHeaders.Get("X-Exchange-Event"); name != "supply_contract.updated" {
		t.Errorf("X-Exchange-Event = %q, want supply_contract.updated", name)
	}

	sigHeader := gotHeaders.Get("X-Hub-Signature-256")
	if !strings.HasPrefix(sigHeader, "sha256=") {
		t.Fatalf("X-Hub-Signature-256 header missing or malformed: %q", sigHeader)
	}
	gotSig := strings.TrimPrefix(sigHeader, "sha256=")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	if wantSig := hex.EncodeToString(mac.Sum(nil)); gotSig != wantSig {
		t.Errorf("signature mismatch: got %q, want %q", gotSig, wantSig)
	}

	var decoded struct {
		Name    string `json:"name"`
		Payload struct {
			Application struct {
				ID int64 `json:"ID"`
			} `json:"Application"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Name != "supply_contract.updated" {
		t.Errorf("envelope name = %q", decoded.Name)
	}
	if decoded.Payload.Application.ID != 11 {
		t.Errorf("payload application id = %d, want 11", decoded.Payload.Application.ID)
	}
}

func TestWebhookSinkNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, "secret", time.Second)
	err := sink.Handle(context.Background(), usecase.UserLoggedIn{User: domain.User{ID: 1}})
	if err == nil {
		t.Fatal("expected an error on 502")
	}
}
