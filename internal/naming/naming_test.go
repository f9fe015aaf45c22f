package naming

import (
	"testing"

	"github.com/ergen-io/ergen/internal/schema"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user_profile", "UserProfile"},
		{"ORDER_ITEM", "OrderItem"},
		{"post-tag", "PostTag"},
		{"shipping address", "ShippingAddress"},
		{"user", "User"},
		{"USER", "User"},
		{"a", "A"},
		{"__leading_and__trailing__", "LeadingAndTrailing"},
		{"mixed-SEP one_two", "MixedSepOneTwo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Pascal(tt.in); got != tt.want {
			t.Errorf("Pascal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "Users"},
		{"Post", "Posts"},
		{"Category", "Categories"},
		{"City", "Cities"},
		{"Day", "Days"},    // vowel before y
		{"Key", "Keys"},    // vowel before y
		{"Address", "Addresses"},
		{"Status", "Statuses"},
		{"Setting", "Settings"},
		{"Settings", "Settings"}, // "ings" names pass through
		{"Booking", "Bookings"},
		{"Bookings", "Bookings"},
	}

	for _, tt := range tests {
		if got := Pluralize(tt.in); got != tt.want {
			t.Errorf("Pluralize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// The heuristic is deliberately not idempotent: a name that already ends
// in "s" (including a previously pluralized one) gains "es" again. This
// asymmetry is part of the frozen rule set.
func TestPluralizeNotIdempotent(t *testing.T) {
	first := Pluralize("Address")
	if first != "Addresses" {
		t.Fatalf("Pluralize(Address) = %q, want Addresses", first)
	}
	second := Pluralize(first)
	if second != "Addresseses" {
		t.Errorf("Pluralize(Addresses) = %q, want Addresseses", second)
	}
}

func TestUnique(t *testing.T) {
	used := make(map[string]bool)

	if got := Unique(used, "Name"); got != "Name" {
		t.Errorf("First Name = %q, want Name", got)
	}
	if got := Unique(used, "Name"); got != "Name2" {
		t.Errorf("Second Name = %q, want Name2", got)
	}
	if got := Unique(used, "name"); got != "name3" {
		t.Errorf("Case-insensitive third = %q, want name3", got)
	}
	if got := Unique(used, "Other"); got != "Other" {
		t.Errorf("Unrelated candidate = %q, want Other", got)
	}
}

func TestEntityNamesCollisions(t *testing.T) {
	s := &schema.Schema{Entities: []schema.Entity{
		{Name: "USER"},
		{Name: "user"},
		{Name: "User"},
		{Name: "POST"},
	}}

	names := NewEntityNames(s)

	want := []string{"User", "User2", "User3", "Post"}
	for i, w := range want {
		if names.ByIndex[i] != w {
			t.Errorf("ByIndex[%d] = %q, want %q", i, names.ByIndex[i], w)
		}
	}

	// Raw lookup resolves to the first declaration's class.
	if got, ok := names.Resolve("uSeR"); !ok || got != "User" {
		t.Errorf("Resolve(uSeR) = %q, %v; want User, true", got, ok)
	}
	if _, ok := names.Resolve("GHOST"); ok {
		t.Error("Resolve(GHOST) should fail")
	}
}

func TestEntityNamesSeparatorCollision(t *testing.T) {
	// Distinct raw names can normalize to the same class name.
	s := &schema.Schema{Entities: []schema.Entity{
		{Name: "order_item"},
		{Name: "ORDER-ITEM"},
	}}

	names := NewEntityNames(s)
	if names.ByIndex[0] != "OrderItem" || names.ByIndex[1] != "OrderItem2" {
		t.Errorf("Got %v, want [OrderItem OrderItem2]", names.ByIndex)
	}
	if got, _ := names.Resolve("ORDER-ITEM"); got != "OrderItem2" {
		t.Errorf("Resolve(ORDER-ITEM) = %q, want OrderItem2", got)
	}
}
