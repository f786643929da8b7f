package models

import "testing"

func TestLegalCaseDetailsValidate(t *testing.T) {
	tests := []struct {
		name    string
		details LegalCaseDetails
		wantErr bool
	}{
		{
			name:    "representation with a court",
			details: LegalCaseDetails{Title: "Eviction appeal", RequestType: RequestTypeRepresentation, CourtID: "c1"},
		},
		{
			name:    "representation with a council",
			details: LegalCaseDetails{Title: "Zoning dispute", RequestType: RequestTypeRepresentation, CouncilID: "cl1"},
		},
		{
			name:    "information with no body",
			details: LegalCaseDetails{Title: "Inheritance question", RequestType: RequestTypeInformation},
		},
		{
			name:    "missing title",
			details: LegalCaseDetails{RequestType: RequestTypeInformation},
			wantErr: true,
		},
		{
			name:    "unknown request type",
			details: LegalCaseDetails{Title: "Mediation", RequestType: "mediation", CourtID: "c1"},
			wantErr: true,
		},
		{
			name:    "both court and council",
			details: LegalCaseDetails{Title: "Eviction appeal", RequestType: RequestTypeRepresentation, CourtID: "c1", CouncilID: "cl1"},
			wantErr: true,
		},
		{
			name:    "representation with no body",
			details: LegalCaseDetails{Title: "Eviction appeal", RequestType: RequestTypeRepresentation},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanTransitionProfileStatus(t *testing.T) {
	allowed := [][2]string{
		{ProfileStatusPending, ProfileStatusActive},
		{ProfileStatusPending, ProfileStatusRejected},
		{ProfileStatusActive, ProfileStatusDisabled},
		{ProfileStatusDisabled, ProfileStatusActive},
	}
	for _, pair := range allowed {
		if !CanTransitionProfileStatus(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{ProfileStatusActive, ProfileStatusPending},
		{ProfileStatusRejected, ProfileStatusActive},
		{ProfileStatusActive, ProfileStatusActive},
		{ProfileStatusRejected, ProfileStatusRejected},
	}
	for _, pair := range denied {
		if CanTransitionProfileStatus(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}
