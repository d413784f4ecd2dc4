package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// constraintErrors maps the named constraints of the schema to domain errors.
var constraintErrors = map[string]error{
	"districts_name_key":                   domain.ErrDuplicateName,
	"constituencies_election_id_fkey":      domain.ErrElectionNotFound,
	"constituencies_name_key":              domain.ErrDuplicateName,
	"constituency_districts_pkey":          domain.ErrDistrictAlreadyAssigned,
	"constituency_districts_district_fkey": domain.ErrDistrictNotFound,
	"parties_name_key":                     domain.ErrDuplicateName,
	"parties_president_id_fkey":            domain.ErrCitizenNotFound,
	"party_members_pkey":                   domain.ErrAlreadyPartyMember,
	"party_members_party_id_fkey":          domain.ErrPartyNotFound,
	"party_members_citizen_id_fkey":        domain.ErrCitizenNotFound,
	"citizens_nid_key":                     domain.ErrDuplicateNID,
	"citizens_district_id_fkey":            domain.ErrDistrictNotFound,
	"candidacies_party_key":                domain.ErrPartyAlreadyContesting,
	"candidacies_citizen_key":              domain.ErrCitizenAlreadyCandidate,
	"candidacies_party_id_fkey":            domain.ErrPartyNotFound,
	"candidacies_citizen_id_fkey":          domain.ErrCitizenNotFound,
	"votes_voter_key_key":                  domain.ErrAlreadyVoted,
}

// translate turns unique and foreign key violations into domain errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code != uniqueViolation && pqErr.Code != foreignKeyViolation {
		return err
	}
	if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
		return mapped
	}
	return err
}
