package entities

type CalorieGoal struct {
	UserID        string `gorm:"primary_key;size:191" json:"user_id"`
	DailyCalories int    `json:"daily_calories"`

	Timestamp
}
