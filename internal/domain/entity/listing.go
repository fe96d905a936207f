package entity

import "time"

// Enumerated listing attributes. Values mirror what the mobile and web
// clients send, so they are stored verbatim.
const (
	AmenityYes = "yes"
	AmenityNo  = "no"
)

var (
	// Floors a room can be on.
	Floors = []string{"1st", "2nd", "3rd", "4th", "5th"}
	// RoomTypes that can be posted.
	RoomTypes = []string{"single room", "double room", "room and kitchen", "flat"}
)

// ValidAmenity reports whether v is a yes/no amenity flag.
func ValidAmenity(v string) bool {
	return v == AmenityYes || v == AmenityNo
}

// ValidFloor reports whether v is an accepted floor value.
func ValidFloor(v string) bool {
	return contains(Floors, v)
}

// ValidRoomType reports whether v is an accepted room type.
func ValidRoomType(v string) bool {
	return contains(RoomTypes, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Listing is a posted room. Slug is derived from Address and unique
// across all listings; the database enforces the uniqueness.
type Listing struct {
	ID        string
	OwnerID   string
	City      string // category reference
	Address   string
	Phone     string
	Rent      int64
	Parking   string // yes|no
	Water     string // yes|no
	Floor     string // 1st..5th
	RoomType  string
	Images    []string // ordered GCS URLs
	Latitude  float64
	Longitude float64
	Slug      string
	Verified  bool // admin approved
	ViewCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
