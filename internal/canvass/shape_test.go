package canvass

import "testing"

func strptr(s string) *string { return &s }

func shapeFixture() ([]AddressOut, []Unit, []residentRow, []attrRow) {
	addrs := []AddressOut{
		{ID: "addr-1", Street: "702 N Oriental St"},
		{ID: "addr-2", Street: "1043 Virginia Ave"},
	}
	units := []Unit{
		{ID: "unit-1a", Name: "1A", AddressID: "addr-2"},
		{ID: "unit-1b", Name: "1B", AddressID: "addr-2"},
	}
	residents := []residentRow{
		{AddressID: "addr-1", ID: "per-maria", Name: "Maria Hernandez", MatchesFilter: true},
		{AddressID: "addr-2", UnitID: strptr("unit-1a"), ID: "per-jordan", Name: "Jordan Lee", MatchesFilter: true},
	}
	attrs := []attrRow{
		{PersonID: "per-maria", ID: "attr-party", Name: "Party Affiliation", Value: "Independent"},
	}
	return addrs, units, residents, attrs
}

func TestShape_NestsUnitsPeopleAndAttrs(t *testing.T) {
	addrs, units, residents, attrs := shapeFixture()
	q := ListQuery{Admin: true, EmptyAddrs: true}

	groups := shapeGroups(q, addrs, units, residents, attrs, nil)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	g1 := groups[0]
	if len(g1.People) != 1 || g1.People[0].ID != "per-maria" {
		t.Fatalf("expected maria at address level, got %v", g1.People)
	}
	if len(g1.People[0].Attrs) != 1 || g1.People[0].Attrs[0].Value != "Independent" {
		t.Errorf("expected current attribute attached, got %v", g1.People[0].Attrs)
	}

	g2 := groups[1]
	if len(g2.Units) != 2 {
		t.Fatalf("expected both units, got %d", len(g2.Units))
	}
	if len(g2.Units[0].People) != 1 || g2.Units[0].People[0].ID != "per-jordan" {
		t.Errorf("expected jordan in unit 1A, got %v", g2.Units[0].People)
	}
	if len(g2.Units[1].People) != 0 {
		t.Errorf("expected unit 1B empty, got %v", g2.Units[1].People)
	}
	// People without stored attributes still carry an empty slice, not null.
	if g2.Units[0].People[0].Attrs == nil {
		t.Error("expected non-nil attrs slice")
	}
}

func TestShape_AttributeFilterDropsNonMatchingGroups(t *testing.T) {
	addrs, units, residents, attrs := shapeFixture()
	for i := range residents {
		if residents[i].ID == "per-jordan" {
			residents[i].MatchesFilter = false
		}
	}
	q := ListQuery{Admin: true, FilterKey: "attr-party", FilterValue: "Independent"}

	groups := shapeGroups(q, addrs, units, residents, attrs, nil)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].People) != 1 {
		t.Errorf("expected matching address group kept, got %v", groups[0].People)
	}
	// Jordan's unit had no match, so the unit is gone entirely.
	for _, u := range groups[1].Units {
		if u.ID == "unit-1a" {
			t.Errorf("expected non-matching unit dropped, got %v", groups[1].Units)
		}
	}
}

func TestShape_NotInterestedSuppressesForVolunteers(t *testing.T) {
	addrs, units, residents, attrs := shapeFixture()
	visits := []Visit{
		{ID: "v1", AddressID: "addr-1", FormID: "form-1", Status: StatusNotInterested},
		{ID: "v2", AddressID: "addr-2", UnitID: strptr("unit-1a"), FormID: "form-1", Status: StatusNotInterested},
	}
	q := ListQuery{FormID: "form-1"}

	groups := shapeGroups(q, addrs, units, residents, attrs, visits)
	// addr-1 is gone; addr-2 survives but with unit 1A suppressed, and 1B
	// suppressed for being empty, which empties addr-2 too.
	if len(groups) != 0 {
		t.Fatalf("expected all groups suppressed, got %d", len(groups))
	}
}

func TestShape_AdminSeesNotInterestedUnits(t *testing.T) {
	addrs, units, residents, attrs := shapeFixture()
	visits := []Visit{
		{ID: "v2", AddressID: "addr-2", UnitID: strptr("unit-1a"), FormID: "form-1", Status: StatusNotInterested},
	}
	q := ListQuery{Admin: true, EmptyAddrs: true, FormID: "form-1"}

	groups := shapeGroups(q, addrs, units, residents, attrs, visits)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	found := false
	for _, u := range groups[1].Units {
		if u.ID == "unit-1a" {
			found = true
			if len(u.Visits) != 1 {
				t.Errorf("expected the visit attached, got %v", u.Visits)
			}
		}
	}
	if !found {
		t.Error("expected admin to still see the not-interested unit")
	}
}

func TestShape_EmptyGroupsDroppedForVolunteers(t *testing.T) {
	addrs, units, _, _ := shapeFixture()
	q := ListQuery{FormID: "form-1"}

	groups := shapeGroups(q, addrs, units, nil, nil, nil)
	if len(groups) != 0 {
		t.Fatalf("expected peopleless addresses dropped, got %d", len(groups))
	}

	// Without a form there is nothing to canvass against, so nothing is
	// filtered.
	q = ListQuery{}
	groups = shapeGroups(q, addrs, units, nil, nil, nil)
	if len(groups) != 2 {
		t.Fatalf("expected all addresses without a form, got %d", len(groups))
	}
}

func TestShape_VisitsOnlyAttachedWithForm(t *testing.T) {
	addrs, units, residents, attrs := shapeFixture()
	visits := []Visit{
		{ID: "v1", AddressID: "addr-1", FormID: "form-1", Status: StatusNotHome},
	}

	groups := shapeGroups(ListQuery{Admin: true, EmptyAddrs: true}, addrs, units, residents, attrs, visits)
	if groups[0].Visits != nil {
		t.Errorf("expected no visits without a form, got %v", groups[0].Visits)
	}

	groups = shapeGroups(ListQuery{Admin: true, EmptyAddrs: true, FormID: "form-1"}, addrs, units, residents, attrs, visits)
	if len(groups[0].Visits) != 1 {
		t.Errorf("expected the visit attached, got %v", groups[0].Visits)
	}
}
