package repository

import (
	"backend/internal/app/ds"
)

// Методы для кандидатов (ORM)

func (r *Repository) CreateCandidate(candidate *ds.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *Repository) GetCandidateByID(id uint) (*ds.Candidate, error) {
	var candidate ds.Candidate
	err := r.db.First(&candidate, id).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *Repository) GetCandidateByEmail(email string) (*ds.Candidate, error) {
	var candidate ds.Candidate
	err := r.db.Where("email = ?", email).First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}
