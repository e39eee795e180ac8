package canvass

import (
	"errors"
	"math"
	"testing"
)

func validSubmission() VisitSubmission {
	return VisitSubmission{
		DeviceID:  "device-ben-phone",
		AddressID: "addr-0001",
		FormID:    "form-gotv-2026",
		Status:    StatusHome,
		Start:     1756500000,
		End:       1756500300,
		Longitude: -86.1371,
		Latitude:  39.7762,
		PersonID:  "per-maria",
		Attrs:     []AttrValue{{ID: "attr-party", Value: "Independent"}},
	}
}

func TestVisitSubmissionValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*VisitSubmission)
		ok     bool
	}{
		{"valid home visit", func(s *VisitSubmission) {}, true},
		{"valid not home", func(s *VisitSubmission) {
			s.Status = StatusNotHome
			s.PersonID = ""
			s.Attrs = nil
		}, true},
		{"valid moved", func(s *VisitSubmission) {
			s.Status = StatusMoved
			s.Attrs = nil
		}, true},
		{"missing deviceId", func(s *VisitSubmission) { s.DeviceID = "" }, false},
		{"missing addressId", func(s *VisitSubmission) { s.AddressID = "" }, false},
		{"missing formId", func(s *VisitSubmission) { s.FormID = "" }, false},
		{"status too high", func(s *VisitSubmission) { s.Status = 4 }, false},
		{"status negative", func(s *VisitSubmission) { s.Status = -1 }, false},
		{"longitude NaN", func(s *VisitSubmission) { s.Longitude = math.NaN() }, false},
		{"latitude infinite", func(s *VisitSubmission) { s.Latitude = math.Inf(1) }, false},
		{"home without personId", func(s *VisitSubmission) { s.PersonID = "" }, false},
		{"moved without personId", func(s *VisitSubmission) {
			s.Status = StatusMoved
			s.PersonID = ""
		}, false},
		{"home without attrs", func(s *VisitSubmission) { s.Attrs = nil }, false},
		{"not interested needs no person", func(s *VisitSubmission) {
			s.Status = StatusNotInterested
			s.PersonID = ""
			s.Attrs = nil
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			}
		})
	}
}
