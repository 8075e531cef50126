package repository

import (
	"backend/internal/app/ds"
)

// Методы для компаний-эмитентов (ORM)

func (r *Repository) CreateCompany(company *ds.Company) error {
	return r.db.Create(company).Error
}

func (r *Repository) GetCompanyByID(id uint) (*ds.Company, error) {
	var company ds.Company
	err := r.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *Repository) GetCompanyByEmail(email string) (*ds.Company, error) {
	var company ds.Company
	err := r.db.Where("email = ?", email).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
