package listing

import (
	"testing"

	"github.com/voyago/voyago-api/internal/pkg/validator"
)

func validCreateRequest() *CreateListingRequest {
	return &CreateListingRequest{
		Title:         "Harbor view apartment",
		Description:   "Two bedroom apartment overlooking the old harbor.",
		Location:      "Lisbon",
		PropertyType:  "apartment",
		PricePerNight: 120.00,
	}
}

func TestCreateListingRequestValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *CreateListingRequest)
		wantField string
	}{
		{"valid", func(r *CreateListingRequest) {}, ""},
		{"title too short", func(r *CreateListingRequest) { r.Title = "Hut" }, "title"},
		{"title missing", func(r *CreateListingRequest) { r.Title = "" }, "title"},
		{"description too short", func(r *CreateListingRequest) { r.Description = "Nice place" }, "description"},
		{"location missing", func(r *CreateListingRequest) { r.Location = "" }, "location"},
		{"unknown property type", func(r *CreateListingRequest) { r.PropertyType = "castle" }, "property_type"},
		{"zero price", func(r *CreateListingRequest) { r.PricePerNight = 0 }, "price_per_night"},
		{"negative price", func(r *CreateListingRequest) { r.PricePerNight = -10 }, "price_per_night"},
		{"too many max guests", func(r *CreateListingRequest) { r.MaxGuests = ptr(51) }, "max_guests"},
		{"zero minimum stay", func(r *CreateListingRequest) { r.MinimumStay = ptr(0) }, "minimum_stay"},
		{"minimum stay over cap", func(r *CreateListingRequest) { r.MinimumStay = ptr(91) }, "minimum_stay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			errs := validator.Validate(req)
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("Validate() = %v, want nil", errs)
				}
				return
			}
			if errs == nil {
				t.Fatal("Validate() = nil, want field error")
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestUpdateListingRequestValidation(t *testing.T) {
	// Empty update is valid, bad partial values are not
	if errs := validator.Validate(&UpdateListingRequest{}); errs != nil {
		t.Errorf("empty update Validate() = %v, want nil", errs)
	}
	if errs := validator.Validate(&UpdateListingRequest{Title: ptr("Hut")}); errs == nil {
		t.Error("short title must fail validation")
	}
	if errs := validator.Validate(&UpdateListingRequest{PricePerNight: ptr(-5.0)}); errs == nil {
		t.Error("negative price must fail validation")
	}
}
