package classify

import (
	"errors"
	"sync"
	"testing"

	"metascan/internal/semtype"
)

// TestFieldRuleTable verifies name-and-storage driven inference.
//
// This table is the heart of the classifier: each case pins a rule the
// surrounding product depends on, and several cases are adversarial inputs
// matching multiple rules to prove first-match-wins.
func TestFieldRuleTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   string
		storage semtype.Type
		want    semtype.Type
	}{
		// "id" fast path: before the table, not storage-gated.
		{"id lowercase", "id", semtype.Integer, semtype.PrimaryKey},
		{"id uppercase", "ID", semtype.Text, semtype.PrimaryKey},
		{"id mixed case", "Id", semtype.Boolean, semtype.PrimaryKey},

		// Coordinates with storage gating.
		{"user_lat float", "user_lat", semtype.Float, semtype.Latitude},
		{"user_lat text is not a coordinate", "user_lat", semtype.Text, ""},
		{"bare lat", "lat", semtype.Float, semtype.Latitude},
		{"longitude suffix", "dropoff_longitude", semtype.Float, semtype.Longitude},
		{"lng suffix", "pickup_lng", semtype.Float, semtype.Longitude},

		// Money and measures; integer satisfies "number" via the hierarchy.
		{"total float", "total", semtype.Float, semtype.Income},
		{"total integer", "total", semtype.Integer, semtype.Income},
		{"order_total substring", "order_total", semtype.Float, semtype.Income},
		{"amount substring", "amount_paid", semtype.Decimal, semtype.Income},
		{"salary integer via number", "salary", semtype.Integer, semtype.Income},
		{"total text is not income", "total", semtype.Text, ""},
		{"count suffix integer", "page_count", semtype.Integer, semtype.Quantity},
		{"count suffix float is gated", "page_count", semtype.Float, ""},
		{"qty exact", "qty", semtype.Integer, semtype.Quantity},
		{"qty is anchored", "qty_on_hand", semtype.Integer, ""},

		// Case-insensitive matching.
		{"uppercase name", "User_Lat", semtype.Float, semtype.Latitude},
		{"uppercase total", "TOTAL", semtype.Float, semtype.Income},

		// First-match-wins: adversarial names matching two-plus rules.
		{"fk beats latitude", "latitude_id", semtype.Float, semtype.ForeignKey},
		{"email beats url", "email_url", semtype.Text, semtype.Email},
		{"company beats name", "company_name", semtype.Text, semtype.Company},
		{"price beats total", "total_price", semtype.Float, semtype.Price},

		// Text rules.
		{"email substring", "contact_email", semtype.Text, semtype.Email},
		{"avatar beats image", "avatar_image", semtype.Text, semtype.AvatarURL},
		{"name substring", "username", semtype.Text, semtype.Name},
		{"status suffix", "order_status", semtype.Text, semtype.Category},
		{"notes exact", "notes", semtype.Text, semtype.Description},
		{"notes is anchored", "notes_internal", semtype.Text, ""},

		// Timestamps.
		{"created_at", "created_at", semtype.DateTime, semtype.CreationTimestamp},
		{"date_joined", "date_joined", semtype.Date, semtype.JoinTimestamp},
		{"birthday", "birthday", semtype.Date, semtype.Birthdate},
		{"created_at text is gated", "created_at", semtype.Text, ""},

		// No inference.
		{"unmatched name", "frobnication", semtype.Text, ""},
		{"unmatched storage family", "widget", semtype.Boolean, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Field(tt.field, tt.storage)
			if err != nil {
				t.Fatalf("Field(%q, %q) error: %v", tt.field, tt.storage, err)
			}
			if got != tt.want {
				t.Fatalf("Field(%q, %q) = %q, want %q", tt.field, tt.storage, got, tt.want)
			}
		})
	}
}

// TestFieldEmptyName verifies the input contract: an empty name is an error,
// not a silent "no inference".
func TestFieldEmptyName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := Field(name, semtype.Text); !errors.Is(err, ErrEmptyName) {
			t.Errorf("Field(%q) err = %v, want ErrEmptyName", name, err)
		}
	}
}

// TestFieldDeterministic verifies that repeated and concurrent calls with
// identical inputs always agree. The rule tables are immutable package state,
// so any disagreement would indicate hidden mutation (and a data race).
func TestFieldDeterministic(t *testing.T) {
	t.Parallel()

	want, err := Field("user_lat", semtype.Float)
	if err != nil || want != semtype.Latitude {
		t.Fatalf("seed call = %q, %v; want latitude, nil", want, err)
	}

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := Field("user_lat", semtype.Float)
				if err != nil || got != want {
					errs <- errors.New("concurrent Field call diverged")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		t.Fatal(err)
	}
}
