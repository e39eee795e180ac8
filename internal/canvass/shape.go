package canvass

// Result shaping: flatten traversal rows into the nested
// address → units → people/visits structure the clients consume. Pure; no
// store access.

type AttrOut struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type PersonOut struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Attrs []AttrOut `json:"attrs"`
}

type UnitOut struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	People []PersonOut `json:"people"`
	Visits []Visit     `json:"visits,omitempty"`
}

type AddressGroup struct {
	Address AddressOut  `json:"address"`
	Units   []UnitOut   `json:"units"`
	People  []PersonOut `json:"people"`
	Visits  []Visit     `json:"visits,omitempty"`
}

func shapeGroups(q ListQuery, addrs []AddressOut, units []Unit, residents []residentRow, attrs []attrRow, visits []Visit) []AddressGroup {
	attrsByPerson := map[string][]AttrOut{}
	for _, a := range attrs {
		attrsByPerson[a.PersonID] = append(attrsByPerson[a.PersonID], AttrOut{
			ID: a.ID, Name: a.Name, Value: a.Value,
		})
	}

	// Residents split into unit-level and address-level groups, tracking
	// whether any member satisfies the attribute filter.
	peopleByUnit := map[string][]PersonOut{}
	matchByUnit := map[string]bool{}
	peopleByAddr := map[string][]PersonOut{}
	matchByAddr := map[string]bool{}
	for _, r := range residents {
		p := PersonOut{ID: r.ID, Name: r.Name, Attrs: attrsByPerson[r.ID]}
		if p.Attrs == nil {
			p.Attrs = []AttrOut{}
		}
		if r.UnitID != nil {
			peopleByUnit[*r.UnitID] = append(peopleByUnit[*r.UnitID], p)
			matchByUnit[*r.UnitID] = matchByUnit[*r.UnitID] || r.MatchesFilter
		} else {
			peopleByAddr[r.AddressID] = append(peopleByAddr[r.AddressID], p)
			matchByAddr[r.AddressID] = matchByAddr[r.AddressID] || r.MatchesFilter
		}
	}

	visitsByUnit := map[string][]Visit{}
	visitsByAddr := map[string][]Visit{}
	for _, v := range visits {
		if v.UnitID != nil {
			visitsByUnit[*v.UnitID] = append(visitsByUnit[*v.UnitID], v)
		} else {
			visitsByAddr[v.AddressID] = append(visitsByAddr[v.AddressID], v)
		}
	}

	unitsByAddr := map[string][]Unit{}
	for _, u := range units {
		unitsByAddr[u.AddressID] = append(unitsByAddr[u.AddressID], u)
	}

	groups := make([]AddressGroup, 0, len(addrs))
	for _, addr := range addrs {
		outUnits := []UnitOut{}
		for _, u := range unitsByAddr[addr.ID] {
			people := peopleByUnit[u.ID]
			if people == nil {
				people = []PersonOut{}
			}
			if q.FilterKey != "" && !matchByUnit[u.ID] {
				continue
			}
			// "Not interested" permanently filters the group for this form.
			if q.FormID != "" && !q.Admin && hasStatus(visitsByUnit[u.ID], StatusNotInterested) {
				continue
			}
			if q.FormID != "" && !q.EmptyAddrs && len(people) == 0 {
				continue
			}
			out := UnitOut{ID: u.ID, Name: u.Name, People: people}
			if q.FormID != "" {
				out.Visits = visitsByUnit[u.ID]
			}
			outUnits = append(outUnits, out)
		}

		people := peopleByAddr[addr.ID]
		if people == nil {
			people = []PersonOut{}
		}
		if q.FilterKey != "" && !matchByAddr[addr.ID] {
			people = []PersonOut{}
		}

		addrVisits := visitsByAddr[addr.ID]
		if q.FormID != "" && !q.EmptyAddrs {
			if hasStatus(addrVisits, StatusNotInterested) {
				continue
			}
			if len(people) == 0 && len(outUnits) == 0 {
				continue
			}
		}

		group := AddressGroup{Address: addr, Units: outUnits, People: people}
		if q.FormID != "" {
			group.Visits = addrVisits
		}
		groups = append(groups, group)
	}
	return groups
}

func hasStatus(visits []Visit, status int) bool {
	for _, v := range visits {
		if v.Status == status {
			return true
		}
	}
	return false
}
