package event

import "time"

// 活动类型枚举。
const (
	TypeWebinar    = "webinar"
	TypeWorkshop   = "workshop"
	TypeConference = "conference"
	TypeNetworking = "networking"
	TypeOther      = "other"
)

// Types 返回全部合法的活动类型。
func Types() []string {
	return []string{TypeWebinar, TypeWorkshop, TypeConference, TypeNetworking, TypeOther}
}

// ValidType 判断活动类型是否合法。
func ValidType(value string) bool {
	for _, t := range Types() {
		if t == value {
			return true
		}
	}
	return false
}

// Event 社区活动日历中的一条活动。
type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TitlePt       string    `gorm:"size:255;not null" json:"titlePt"`
	TitleEn       string    `gorm:"size:255;not null" json:"titleEn"`
	DescriptionPt string    `gorm:"type:text" json:"descriptionPt"`
	DescriptionEn string    `gorm:"type:text" json:"descriptionEn"`
	EventType     string    `gorm:"size:32;not null;default:'other'" json:"eventType"`
	Location      string    `gorm:"size:500" json:"location"`
	ImageURL      string    `gorm:"size:1000" json:"imageUrl"`
	EventURL      string    `gorm:"size:1000" json:"eventUrl"`
	EventDate     time.Time `gorm:"not null;index" json:"eventDate"`
	CreatedBy     *uint     `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName 返回活动表名。
func (Event) TableName() string {
	return "events"
}
