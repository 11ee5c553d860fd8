package seed

import (
	"errors"
	"fmt"
	"os"

	"vzsocial/internal/models"

	"gopkg.in/yaml.v3"
)

// AdminSeed is a back-office account created by a preset.
type AdminSeed struct {
	Username string `yaml:"username"`
	Role     string `yaml:"role"`
}

// Preset describes how much data a seed run creates.
type Preset struct {
	Name               string      `yaml:"name"`
	Customers          int         `yaml:"customers"`
	FollowsPerCustomer int         `yaml:"follows_per_customer"`
	PostsPerCustomer   int         `yaml:"posts_per_customer"`
	ReelsPerCustomer   int         `yaml:"reels_per_customer"`
	StoriesPerCustomer int         `yaml:"stories_per_customer"`
	CommentsPerPost    int         `yaml:"comments_per_post"`
	RepliesPerComment  int         `yaml:"replies_per_comment"`
	LikesPerPost       int         `yaml:"likes_per_post"`
	Songs              int         `yaml:"songs"`
	Movies             int         `yaml:"movies"`
	EpisodesPerMovie   int         `yaml:"episodes_per_movie"`
	Admins             []AdminSeed `yaml:"admins"`
}

// Presets are the built-in seed sizes.
var Presets = map[string]Preset{
	"minimal": {
		Name:               "minimal",
		Customers:          5,
		FollowsPerCustomer: 2,
		PostsPerCustomer:   2,
		ReelsPerCustomer:   1,
		StoriesPerCustomer: 1,
		CommentsPerPost:    1,
		RepliesPerComment:  1,
		LikesPerPost:       2,
		Songs:              3,
		Movies:             1,
		EpisodesPerMovie:   2,
		Admins:             []AdminSeed{{Username: "vz_admin", Role: models.AdminRoleAdmin}},
	},
	"demo": {
		Name:               "demo",
		Customers:          50,
		FollowsPerCustomer: 8,
		PostsPerCustomer:   4,
		ReelsPerCustomer:   2,
		StoriesPerCustomer: 1,
		CommentsPerPost:    3,
		RepliesPerComment:  2,
		LikesPerPost:       10,
		Songs:              20,
		Movies:             8,
		EpisodesPerMovie:   6,
		Admins: []AdminSeed{
			{Username: "vz_admin", Role: models.AdminRoleAdmin},
			{Username: "vz_moderator", Role: models.AdminRoleModerator},
		},
	},
}

// Validate rejects negative counts and unknown admin roles.
func (p Preset) Validate() error {
	counts := []int{
		p.Customers, p.FollowsPerCustomer, p.PostsPerCustomer, p.ReelsPerCustomer,
		p.StoriesPerCustomer, p.CommentsPerPost, p.RepliesPerComment, p.LikesPerPost,
		p.Songs, p.Movies, p.EpisodesPerMovie,
	}
	for _, n := range counts {
		if n < 0 {
			return errors.New("preset counts must not be negative")
		}
	}
	for _, a := range p.Admins {
		if a.Username == "" {
			return errors.New("preset admin needs a username")
		}
		if !models.ValidAdminRole(a.Role) {
			return fmt.Errorf("preset admin %s has unknown role %q", a.Username, a.Role)
		}
	}
	return nil
}

// ParsePreset decodes a YAML preset. Fields left out default to the minimal preset.
func ParsePreset(data []byte) (Preset, error) {
	p := Presets["minimal"]
	p.Admins = nil
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset: %w", err)
	}
	if p.Name == "" {
		p.Name = "custom"
	}
	return p, p.Validate()
}

// LoadPreset reads a YAML preset from path.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path) // #nosec G304: operator-supplied path
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(data)
}
