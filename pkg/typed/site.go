package typed

import "strings"

// Section names of the site document.
const (
	SectionHero         = "hero"
	SectionAbout        = "about"
	SectionLegal        = "legal"
	SectionPersonalInfo = "personalInfo"
	SectionImpressum    = "impressum"
	SectionDatenschutz  = "datenschutz"
	SectionProjects     = "projects"
)

type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTA      string `json:"cta"`
}

type About struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Legal holds the texts of the two legal pages.
type Legal struct {
	Impressum   string `json:"impressum"`
	Datenschutz string `json:"datenschutz"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

type PersonalInfo struct {
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

type Impressum struct {
	Company string `json:"company"`
	Address string `json:"address"`
}

// Datenschutz carries the revision date of the privacy policy (YYYY-MM-DD).
type Datenschutz struct {
	LastUpdated string `json:"lastUpdated"`
}

// Project is one portfolio card. Tags are comma separated.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Github      string `json:"github,omitempty"`
	Demo        string `json:"demo,omitempty"`
}

// TagList splits Tags into trimmed, non-empty entries.
func (p Project) TagList() []string {
	var out []string
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Projects maps project IDs to projects.
type Projects map[string]Project

// Site is the typed form of the whole document.
type Site struct {
	Hero         Hero         `json:"hero"`
	About        About        `json:"about"`
	Legal        Legal        `json:"legal"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Impressum    Impressum    `json:"impressum"`
	Datenschutz  Datenschutz  `json:"datenschutz"`
	Projects     Projects     `json:"projects,omitempty"`
}
