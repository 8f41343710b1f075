// Package recordset joins one batch's record-sets by patient identifier.
package recordset

import (
	"slices"

	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/normalize"
)

// Input holds the raw record-sets of one batch. Any of them may be empty.
type Input struct {
	Patients  []model.PatientInfo
	Diagnoses []model.Diagnosis
	Charges   []model.ChargeLine
	Summaries []model.BillingSummary
	Claims    []model.ClaimRecord
}

// Set is an identifier index over one batch. It is built once and only read
// afterwards; every accessor returns copies.
type Set struct {
	patients  map[string]model.PatientInfo
	diagnoses map[string][]model.Diagnosis
	charges   map[string][]model.ChargeLine
	summaries map[string]model.BillingSummary
	claims    map[string]model.ClaimRecord

	patientOrder []string
	chargeOrder  []string
}

// New normalizes every identifier in in and indexes the records. For the
// one-per-patient record-sets (patients, summaries, claims) the first row for
// an identifier wins. Rows whose identifier normalizes to "" are dropped.
func New(in Input) *Set {
	s := &Set{
		patients:  make(map[string]model.PatientInfo, len(in.Patients)),
		diagnoses: make(map[string][]model.Diagnosis),
		charges:   make(map[string][]model.ChargeLine),
		summaries: make(map[string]model.BillingSummary, len(in.Summaries)),
		claims:    make(map[string]model.ClaimRecord, len(in.Claims)),
	}

	for _, p := range in.Patients {
		p.Identifier = normalize.Identifier(p.Identifier)
		if p.Identifier == "" {
			continue
		}
		if _, dup := s.patients[p.Identifier]; dup {
			continue
		}
		s.patients[p.Identifier] = p
		s.patientOrder = append(s.patientOrder, p.Identifier)
	}
	for _, d := range in.Diagnoses {
		d.Identifier = normalize.Identifier(d.Identifier)
		if d.Identifier != "" {
			s.diagnoses[d.Identifier] = append(s.diagnoses[d.Identifier], d)
		}
	}
	for _, c := range in.Charges {
		c.Identifier = normalize.Identifier(c.Identifier)
		if c.Identifier == "" {
			continue
		}
		if _, seen := s.charges[c.Identifier]; !seen {
			s.chargeOrder = append(s.chargeOrder, c.Identifier)
		}
		s.charges[c.Identifier] = append(s.charges[c.Identifier], c)
	}
	for _, b := range in.Summaries {
		b.Identifier = normalize.Identifier(b.Identifier)
		if _, dup := s.summaries[b.Identifier]; b.Identifier != "" && !dup {
			s.summaries[b.Identifier] = b
		}
	}
	for _, c := range in.Claims {
		c.Identifier = normalize.Identifier(c.Identifier)
		if _, dup := s.claims[c.Identifier]; c.Identifier != "" && !dup {
			s.claims[c.Identifier] = c
		}
	}
	return s
}

// PatientInfo returns the patient-info record for id. A missing record is a
// *model.NotFoundError.
func (s *Set) PatientInfo(id string) (model.PatientInfo, error) {
	id = normalize.Identifier(id)
	p, ok := s.patients[id]
	if !ok {
		return model.PatientInfo{}, &model.NotFoundError{Identifier: id}
	}
	return p, nil
}

// Diagnoses returns every diagnosis row for id in source order.
func (s *Set) Diagnoses(id string) []model.Diagnosis {
	return slices.Clone(s.diagnoses[normalize.Identifier(id)])
}

// Charges returns every charge line for id in source order.
func (s *Set) Charges(id string) []model.ChargeLine {
	return slices.Clone(s.charges[normalize.Identifier(id)])
}

// Summary returns the billing summary for id, or nil when there is none.
func (s *Set) Summary(id string) *model.BillingSummary {
	b, ok := s.summaries[normalize.Identifier(id)]
	if !ok {
		return nil
	}
	return &b
}

// Claim returns the claim record for id, or nil when there is none.
func (s *Set) Claim(id string) *model.ClaimRecord {
	c, ok := s.claims[normalize.Identifier(id)]
	if !ok {
		return nil
	}
	return &c
}

// PatientIdentifiers lists identifiers with a patient-info record, in source
// order.
func (s *Set) PatientIdentifiers() []string {
	return slices.Clone(s.patientOrder)
}

// ChargeIdentifiers lists identifiers with at least one charge line, in the
// order they first appear.
func (s *Set) ChargeIdentifiers() []string {
	return slices.Clone(s.chargeOrder)
}

// Orphans lists identifiers that have charge lines but no patient-info
// record, in the order they first appear.
func (s *Set) Orphans() []string {
	var out []string
	for _, id := range s.chargeOrder {
		if _, ok := s.patients[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
