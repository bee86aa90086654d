package models

// Review is a customer review attached to exactly one worker record.
type Review struct {
	ID      int64  `yaml:"id" json:"id"`
	Author  string `yaml:"author" json:"author"`
	Avatar  string `yaml:"avatar" json:"avatar"`
	Date    string `yaml:"date" json:"date"`
	Rating  int    `yaml:"rating" json:"rating"`
	Comment string `yaml:"comment" json:"comment"`
}

// Worker is a service-provider listing. Loaded once at startup from the
// fixtures file and never mutated afterwards.
type Worker struct {
	ID          int64    `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Service     string   `yaml:"service" json:"service"`
	Location    string   `yaml:"location" json:"location"`
	Rating      float64  `yaml:"rating" json:"rating"`
	ReviewCount int      `yaml:"review_count" json:"reviewCount"`
	HourlyRate  float64  `yaml:"hourly_rate" json:"hourlyRate"`
	ImageURL    string   `yaml:"image_url" json:"imageUrl"`
	Verified    bool     `yaml:"verified" json:"verified"`
	Description string   `yaml:"description" json:"description"`
	Skills      []string `yaml:"skills" json:"skills"`
	Reviews     []Review `yaml:"reviews" json:"reviews"`
}

// Clone returns a deep copy so callers can hold a snapshot that later
// catalog changes can never touch.
func (w Worker) Clone() Worker {
	c := w
	c.Skills = append([]string(nil), w.Skills...)
	c.Reviews = append([]Review(nil), w.Reviews...)
	return c
}
