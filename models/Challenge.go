package models

// Challenge represents a recycling challenge users can attempt for points
type Challenge struct {
    ID              string  `gorm:"type:uuid;default:gen_random_uuid();primary_key" json:"id"`
    Title           string  `gorm:"type:varchar(100);not null" json:"title"`
    Description     string  `gorm:"type:varchar(1000);not null" json:"description"`
    PointsAvailable int     `gorm:"type:integer;not null;column:points_available" json:"points_available"`
    WasteKg         float64 `gorm:"type:numeric(10,2);not null;default:0;column:waste_kg" json:"waste_kg"`
    IsActive        bool    `gorm:"not null;default:true;column:is_active" json:"is_active"`
    Attempts        []*ChallengeAttempt `gorm:"foreignKey:ChallengeID" json:"attempts,omitempty"`
}
