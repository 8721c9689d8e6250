package domain

import (
	"fmt"
	"time"
)

// PathRole - роль маршрута без ОТ
type PathRole string

const (
	RoleDirect            PathRole = "direct"
	RoleBeginningFallback PathRole = "beginning_fallback"
	RoleEndingFallback    PathRole = "ending_fallback"
)

// PathKey идентифицирует вычисление direct path. Время отправления намеренно
// не входит в ключ: одинаковые ключи дают одинаковый результат.
type PathKey struct {
	Mode           FallbackMode
	OriginURI      string
	DestinationURI string
	Role           PathRole
}

// String - ключ для кеша
func (k PathKey) String() string {
	return fmt.Sprintf("direct_path:%s:%s:%s:%s", k.Mode, k.OriginURI, k.DestinationURI, k.Role)
}

// DirectPath - маршрут целиком по уличной сети
type DirectPath struct {
	Mode     FallbackMode    `json:"mode"`
	Role     PathRole        `json:"role"`
	Duration int             `json:"duration"`
	Distance float64         `json:"distance"`
	Geometry [][2]float64    `json:"geometry,omitempty"`
	Feeds    []FeedPublisher `json:"feed_publishers,omitempty"`
}

// DirectPathQuery - параметры запроса direct path к street network
type DirectPathQuery struct {
	Key         PathKey
	Origin      Place
	Destination Place
	Datetime    time.Time
	Clockwise   bool
	Speed       float64
}
