package models

// Salon is a read-only record supplied by the salon data source.
type Salon struct {
	ID           ID             `bson:"id" json:"id"`
	Name         string         `bson:"name" json:"name"`
	Type         string         `bson:"type,omitempty" json:"type,omitempty"` // "salon", "barber", ...
	Rating       float64        `bson:"rating,omitempty" json:"rating,omitempty"`
	Address      Address        `bson:"address,omitempty" json:"address,omitzero"`
	OpeningHours []OpeningHours `bson:"openingHours" json:"openingHours"`
	Treatments   []Treatment    `bson:"treatments" json:"treatments"`
	Stylists     []Stylist      `bson:"stylists" json:"stylists"`
}

type Address struct {
	Street      string      `bson:"street,omitempty" json:"street,omitempty"`
	City        string      `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode  string      `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country     string      `bson:"country,omitempty" json:"country,omitempty"`
	Coordinates Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitzero"`
}

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// ClosedHours marks a day without opening hours.
const ClosedHours = "Stängt"

// OpeningHours describes one weekday of a salon.
type OpeningHours struct {
	Day   string `bson:"day" json:"day"`     // "sunday" .. "saturday"
	Open  bool   `bson:"open" json:"open"`   // false closes the day regardless of Hours
	Hours string `bson:"hours" json:"hours"` // "HH:MM-HH:MM" or "Stängt"
}

// Closed reports whether the day yields no slots.
func (o OpeningHours) Closed() bool {
	return !o.Open || o.Hours == ClosedHours
}

// Treatment is a purchasable service of a salon.
type Treatment struct {
	ID            ID      `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Category      string  `bson:"category,omitempty" json:"category,omitempty"`
	Price         float64 `bson:"price" json:"price"`
	OriginalPrice float64 `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"` // price before discount; equals Price when unset
	Duration      int     `bson:"duration" json:"duration"`                               // minutes
}

// DefaultTreatmentDuration applies when a treatment carries no duration.
const DefaultTreatmentDuration = 30

// EffectiveOriginalPrice returns OriginalPrice, falling back to Price.
func (t Treatment) EffectiveOriginalPrice() float64 {
	if t.OriginalPrice == 0 {
		return t.Price
	}
	return t.OriginalPrice
}

// EffectiveDuration returns Duration, falling back to DefaultTreatmentDuration.
func (t Treatment) EffectiveDuration() int {
	if t.Duration <= 0 {
		return DefaultTreatmentDuration
	}
	return t.Duration
}

type Stylist struct {
	ID        ID     `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Available *bool  `bson:"available,omitempty" json:"available,omitempty"`
}

// IsAvailable is true unless the stylist is explicitly marked unavailable.
func (s Stylist) IsAvailable() bool {
	return s.Available == nil || *s.Available
}

// FindTreatment looks up a treatment by id.
func (s *Salon) FindTreatment(id ID) (Treatment, bool) {
	for _, t := range s.Treatments {
		if t.ID == id {
			return t, true
		}
	}
	return Treatment{}, false
}

// FindStylist looks up a stylist by id.
func (s *Salon) FindStylist(id ID) (Stylist, bool) {
	for _, st := range s.Stylists {
		if st.ID == id {
			return st, true
		}
	}
	return Stylist{}, false
}
