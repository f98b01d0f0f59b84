package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"donorsite/internal/domain"
)

type responseStub struct {
	status int
	body   string
	err    error
}

type captureTransport struct {
	responses map[string]responseStub
	requests  []*http.Request
	bodies    [][]byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests = append(c.requests, req)
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	c.bodies = append(c.bodies, body)
	stub, ok := c.responses[req.Method+" "+req.URL.Path]
	if !ok {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(`{"message":"no route"}`)), Header: http.Header{}}, nil
	}
	if stub.err != nil {
		return nil, stub.err
	}
	return &http.Response{
		StatusCode: stub.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(stub.body))),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}, nil
}

func newTestClient(t *testing.T, responses map[string]responseStub) (*Client, *captureTransport) {
	t.Helper()
	transport := &captureTransport{responses: responses}
	client, err := NewClient(Options{
		BaseURL:    "http://backend.test/",
		HTTPClient: &http.Client{Transport: transport},
		Duration:   NewDurationHistogram(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, transport
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{}); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("NewClient error = %v, want ErrMissingBaseURL", err)
	}
}

func TestListCausesDecodesEnvelope(t *testing.T) {
	client, transport := newTestClient(t, map[string]responseStub{
		"GET /api/campaigns": {status: 200, body: `{"data":[
			{"id":"c1","title":"Aide aux orphelins","raised":125000,"goal":"200000","icon":"Heart"},
			{"id":7,"name":"Fonds Zakat","raised_amount":"1500.50","target_amount":3000},
			{"title":"missing id"}
		]}`},
	})

	causes, err := client.ListCauses(context.Background())
	if err != nil {
		t.Fatalf("ListCauses: %v", err)
	}
	if len(causes) != 2 {
		t.Fatalf("expected 2 causes, got %d: %#v", len(causes), causes)
	}
	if causes[0].Title != "Aide aux orphelins" || !causes[0].Goal.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("unexpected first cause: %#v", causes[0])
	}
	if causes[1].ID != "7" || causes[1].Title != "Fonds Zakat" {
		t.Fatalf("unexpected second cause: %#v", causes[1])
	}
	if !causes[1].Raised.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("raised = %s, want 1500.50", causes[1].Raised)
	}
	if got := transport.requests[0].Header.Get("Accept"); got != "application/json" {
		t.Fatalf("Accept header = %q", got)
	}
}

func TestListCausesWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, map[string]responseStub{
		"GET /api/campaigns": {status: 200, body: `[{"id":"c2","title":"Soutien aux veuves"}]`},
	})
	causes, err := client.ListCauses(context.Background())
	if err != nil {
		t.Fatalf("ListCauses: %v", err)
	}
	if len(causes) != 1 || causes[0].ID != "c2" {
		t.Fatalf("unexpected causes: %#v", causes)
	}
}

func TestGetBeneficiaryOrphan(t *testing.T) {
	client, transport := newTestClient(t, map[string]responseStub{
		"GET /api/orphans/42": {status: 200, body: `{"data":{"id":42,"first_name":"Ahmed","last_name":"Hassan","city":"Gaza","country":"Palestine","monthly_need":"50","sponsorship_status":"available","age":7}}`},
	})

	b, err := client.GetBeneficiary(context.Background(), domain.CategoryOrphan, "42")
	if err != nil {
		t.Fatalf("GetBeneficiary: %v", err)
	}
	if b.Name != "Ahmed Hassan" || b.Location != "Gaza, Palestine" {
		t.Fatalf("unexpected beneficiary: %#v", b)
	}
	if b.Category != domain.CategoryOrphan || b.Sponsored || b.Age != 7 {
		t.Fatalf("unexpected beneficiary flags: %#v", b)
	}
	if !b.MonthlyNeed.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("monthly need = %s", b.MonthlyNeed)
	}
	if got := transport.requests[0].URL.String(); got != "http://backend.test/api/orphans/42" {
		t.Fatalf("request url = %q", got)
	}
}

func TestGetBeneficiaryWidowUsesFamilies(t *testing.T) {
	client, transport := newTestClient(t, map[string]responseStub{
		"GET /api/families/w1": {status: 200, body: `{"data":{"id":"w1","name":"Khadija Mohammed","category":"widow","children":4,"is_sponsored":true}}`},
	})

	b, err := client.GetBeneficiary(context.Background(), domain.CategoryWidow, "w1")
	if err != nil {
		t.Fatalf("GetBeneficiary: %v", err)
	}
	if b.Category != domain.CategoryWidow || !b.Sponsored || b.Children != 4 {
		t.Fatalf("unexpected beneficiary: %#v", b)
	}
	if transport.requests[0].URL.Path != "/api/families/w1" {
		t.Fatalf("unexpected path %q", transport.requests[0].URL.Path)
	}
}

func TestGetBeneficiaryNotFound(t *testing.T) {
	client, _ := newTestClient(t, map[string]responseStub{
		"GET /api/orphans/1": {status: 200, body: `{"data":null}`},
	})

	if _, err := client.GetBeneficiary(context.Background(), domain.CategoryOrphan, "999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing route error = %v, want ErrNotFound", err)
	}
	if _, err := client.GetBeneficiary(context.Background(), domain.CategoryOrphan, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("null data error = %v, want ErrNotFound", err)
	}
}

func TestListBeneficiariesFiltersCategory(t *testing.T) {
	client, _ := newTestClient(t, map[string]responseStub{
		"GET /api/families": {status: 200, body: `{"data":[
			{"id":"w1","name":"Khadija","category":"widow"},
			{"id":"f1","name":"Famille Rahman","category":"family","members":7}
		]}`},
	})

	widows, err := client.ListBeneficiaries(context.Background(), domain.CategoryWidow)
	if err != nil {
		t.Fatalf("ListBeneficiaries: %v", err)
	}
	if len(widows) != 1 || widows[0].ID != "w1" {
		t.Fatalf("unexpected widows: %#v", widows)
	}
	families, err := client.ListBeneficiaries(context.Background(), domain.CategoryFamily)
	if err != nil {
		t.Fatalf("ListBeneficiaries: %v", err)
	}
	if len(families) != 1 || families[0].Members != 7 {
		t.Fatalf("unexpected families: %#v", families)
	}
}

func TestSubmitSponsorshipWithRedirect(t *testing.T) {
	client, transport := newTestClient(t, map[string]responseStub{
		"POST /api/sponsorships": {status: 201, body: `{"authorization_url":"https://pay.example/xyz","reference":"SP-1"}`},
	})

	res, err := client.Submit(context.Background(), domain.Submission{
		Amount:          decimal.NewFromInt(100),
		Type:            domain.KindSponsorship,
		SponsorshipType: domain.CategoryOrphan,
		OrphanID:        "42",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.AuthorizationURL != "https://pay.example/xyz" || res.Reference != "SP-1" {
		t.Fatalf("unexpected result: %#v", res)
	}

	var sent map[string]any
	if err := json.Unmarshal(transport.bodies[0], &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sent["orphan_id"] != float64(42) {
		t.Fatalf("orphan_id = %#v, want 42", sent["orphan_id"])
	}
	if got := transport.requests[0].Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestSubmitDonationSuccessWithoutRedirect(t *testing.T) {
	client, _ := newTestClient(t, map[string]responseStub{
		"POST /api/donations": {status: 200, body: `{"success":true,"data":{"id":"D-9"}}`},
	})

	res, err := client.Submit(context.Background(), domain.Submission{Type: domain.KindDonation, CampaignID: "c1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Success || res.AuthorizationURL != "" || res.Reference != "D-9" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name string
		stub responseStub
	}{
		{name: "server error with message", stub: responseStub{status: 500, body: `{"message":"payment provider down"}`}},
		{name: "validation error without message", stub: responseStub{status: 422, body: `oops`}},
		{name: "explicit success false", stub: responseStub{status: 200, body: `{"success":false,"message":"duplicate"}`}},
		{name: "empty success body", stub: responseStub{status: 200, body: ``}},
		{name: "html success body", stub: responseStub{status: 200, body: `<html><body>OK</body></html>`}},
		{name: "transport error", stub: responseStub{err: errors.New("connection refused")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, map[string]responseStub{"POST /api/donations": tc.stub})
			_, err := client.Submit(context.Background(), domain.Submission{Type: domain.KindDonation})
			if !errors.Is(err, domain.ErrBackendFailure) {
				t.Fatalf("Submit error = %v, want ErrBackendFailure", err)
			}
		})
	}
}

func TestRequestDurationIsObserved(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{
		"GET /api/campaigns": {status: 200, body: `{"data":[]}`},
	}}
	hist := NewDurationHistogram()
	client, err := NewClient(Options{BaseURL: "http://backend.test", HTTPClient: &http.Client{Transport: transport}, Duration: hist})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListCauses(context.Background()); err != nil {
		t.Fatalf("ListCauses: %v", err)
	}
	if got := testutil.CollectAndCount(hist); got != 1 {
		t.Fatalf("expected 1 observed series, got %d", got)
	}
}
