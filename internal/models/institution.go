package models

// Location is a point on the map shown on a json card
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Institution is one entry of the list shown on a json card
type Institution struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InstitutionLookup is what the institution collaborator returns for a source system
type InstitutionLookup struct {
	Location     *Location     `json:"location,omitempty"`
	Institutions []Institution `json:"institutions"`
}

// Clone returns a deep copy of the lookup
func (l *InstitutionLookup) Clone() *InstitutionLookup {
	if l == nil {
		return nil
	}

	cp := &InstitutionLookup{
		Institutions: append(make([]Institution, 0, len(l.Institutions)), l.Institutions...),
	}
	if l.Location != nil {
		loc := *l.Location
		cp.Location = &loc
	}
	return cp
}

// HealthCheck represents system health status
type HealthCheck struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	Version        string            `json:"version"`
	DeploymentMode string            `json:"deployment_mode"`
	Timestamp      string            `json:"timestamp"`
	Checks         map[string]string `json:"checks,omitempty"`
}
