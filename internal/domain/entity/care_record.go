package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CareEpisodeRecord is the clinical record of one reception. ReceptionID is
// unique: a reception owns at most one record.
type CareEpisodeRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReceptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"reception_id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ExaminedAt  time.Time `gorm:"not null" json:"examined_at"`
	Symptoms    string    `gorm:"type:text" json:"symptoms"`
	Diagnosis   string    `gorm:"type:text" json:"diagnosis"`
	DiseaseType *string   `gorm:"type:varchar(100)" json:"disease_type,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Prescriptions []PrescriptionLine `gorm:"foreignKey:RecordID" json:"prescriptions"`
	Services      []ServiceLine      `gorm:"foreignKey:RecordID" json:"services"`
}

func (CareEpisodeRecord) TableName() string {
	return "care_episode_records"
}

// PrescriptionLine is one prescribed medicine. UnitPrice is the medicine's
// sale price at the moment the line was saved.
type PrescriptionLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	MedicineID uuid.UUID       `gorm:"type:uuid;not null" json:"medicine_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Dosage     string          `gorm:"type:varchar(255)" json:"dosage"`
	Days       int             `gorm:"not null" json:"days"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PrescriptionLine) TableName() string {
	return "prescription_lines"
}

func (l PrescriptionLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ServiceLine is one ordered clinic service; Position keeps the order the
// clinician entered them in.
type ServiceLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	ServiceID uuid.UUID       `gorm:"type:uuid;not null" json:"service_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Position  int             `gorm:"not null" json:"position"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ServiceLine) TableName() string {
	return "service_lines"
}

func (l ServiceLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MedicineFee sums quantity x snapshotted price over all prescription lines.
func (r *CareEpisodeRecord) MedicineFee() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Prescriptions {
		total = total.Add(l.Amount())
	}
	return total
}

// ServiceFee sums quantity x snapshotted price over all service lines.
func (r *CareEpisodeRecord) ServiceFee() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Services {
		total = total.Add(l.Amount())
	}
	return total
}

// HasBillableContent reports whether any line item exists.
func (r *CareEpisodeRecord) HasBillableContent() bool {
	return len(r.Prescriptions) > 0 || len(r.Services) > 0
}
