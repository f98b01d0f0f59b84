package backend

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"donorsite/internal/domain"
)

// envelope returns the "data" member of a response, or the whole document
// when the backend answered without the envelope.
func envelope(raw []byte) gjson.Result {
	if data := gjson.GetBytes(raw, "data"); data.Exists() {
		return data
	}
	return gjson.ParseBytes(raw)
}

func decodeCauses(raw []byte) []domain.Cause {
	data := envelope(raw)
	if !data.IsArray() {
		return nil
	}
	var out []domain.Cause
	data.ForEach(func(_, r gjson.Result) bool {
		id := firstString(r, "id", "uuid")
		if id == "" {
			return true
		}
		out = append(out, domain.Cause{
			ID:          id,
			Title:       firstString(r, "title", "name"),
			Description: firstString(r, "description", "summary"),
			Icon:        firstString(r, "icon"),
			Raised:      money(r, "raised", "raised_amount", "current_amount"),
			Goal:        money(r, "goal", "goal_amount", "target_amount"),
		})
		return true
	})
	return out
}

func decodeBeneficiaries(raw []byte, category domain.Category) []domain.Beneficiary {
	data := envelope(raw)
	if !data.IsArray() {
		return nil
	}
	var out []domain.Beneficiary
	data.ForEach(func(_, r gjson.Result) bool {
		if b, ok := beneficiaryFrom(r, category); ok {
			out = append(out, b)
		}
		return true
	})
	return out
}

func decodeBeneficiary(raw []byte, category domain.Category) (domain.Beneficiary, bool) {
	data := envelope(raw)
	if data.IsArray() {
		data = data.Get("0")
	}
	if !data.IsObject() {
		return domain.Beneficiary{}, false
	}
	return beneficiaryFrom(data, category)
}

// beneficiaryFrom maps a backend record. Family records carry their own
// category so widows can be told apart from families.
func beneficiaryFrom(r gjson.Result, requested domain.Category) (domain.Beneficiary, bool) {
	id := firstString(r, "id", "uuid")
	if id == "" {
		return domain.Beneficiary{}, false
	}
	category := requested
	if requested != domain.CategoryOrphan {
		if c, err := domain.ParseCategory(firstString(r, "category", "type", "family_type")); err == nil && c != domain.CategoryOrphan {
			category = c
		}
	}

	name := firstString(r, "name", "full_name", "family_name")
	if name == "" {
		name = strings.TrimSpace(firstString(r, "first_name") + " " + firstString(r, "last_name"))
	}
	location := firstString(r, "location")
	if location == "" {
		location = joinNonEmpty(", ", firstString(r, "city"), firstString(r, "country"))
	}

	sponsored := r.Get("sponsored").Bool() || r.Get("is_sponsored").Bool()
	if status := firstString(r, "sponsorship_status", "status"); strings.EqualFold(status, "sponsored") {
		sponsored = true
	}

	return domain.Beneficiary{
		ID:          id,
		Category:    category,
		Name:        name,
		Location:    location,
		Story:       firstString(r, "story", "description", "bio"),
		Image:       firstString(r, "image", "photo_url", "image_url"),
		Age:         int(r.Get("age").Int()),
		Children:    int(firstInt(r, "children", "children_count")),
		Members:     int(firstInt(r, "members", "members_count")),
		MonthlyNeed: money(r, "monthly_need", "monthlyNeed", "monthly_amount"),
		Sponsored:   sponsored,
	}, true
}

func decodeSubmissionResult(raw []byte) (*domain.SubmissionResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("backend: %w: submission response is not json", domain.ErrBackendFailure)
	}
	doc := gjson.ParseBytes(raw)
	res := &domain.SubmissionResult{
		AuthorizationURL: firstString(doc, "authorization_url", "data.authorization_url"),
		Reference:        firstString(doc, "reference", "data.reference", "data.id", "id"),
	}
	success := doc.Get("success")
	if res.AuthorizationURL != "" {
		res.Success = true
		return res, nil
	}
	if success.Exists() && !success.Bool() {
		if msg := errorMessage(raw); msg != "" {
			return nil, fmt.Errorf("backend: %w: %s", domain.ErrBackendFailure, msg)
		}
		return nil, fmt.Errorf("backend: %w: submission rejected", domain.ErrBackendFailure)
	}
	res.Success = true
	return res, nil
}

func errorMessage(raw []byte) string {
	return firstString(gjson.ParseBytes(raw), "message", "error.message", "error")
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.IsObject() || v.IsArray() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(r gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v.Int()
		}
	}
	return 0
}

// money reads a monetary field that may be a JSON number or a numeric string.
func money(r gjson.Result, paths ...string) decimal.Decimal {
	for _, p := range paths {
		v := r.Get(p)
		var text string
		switch v.Type {
		case gjson.Number:
			text = v.Raw
		case gjson.String:
			text = strings.TrimSpace(v.Str)
		default:
			continue
		}
		if d, err := decimal.NewFromString(text); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
