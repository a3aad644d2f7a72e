package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/fpscore/internal/model"
)

// Simulation holds all configuration for the simulation host.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`
	TickInterval time.Duration `yaml:"tick_interval"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	Player    PlayerConfig            `yaml:"player"`
	Profiles  map[string]AgentProfile `yaml:"profiles"`
	Spawns    []SpawnConfig           `yaml:"spawns"`
	Obstacles []ObstacleConfig        `yaml:"obstacles"`
	Doors     []DoorConfig            `yaml:"doors"`
	Turrets   []TurretConfig          `yaml:"turrets"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	DBName      string `yaml:"dbname"`
	SSLMode     string `yaml:"sslmode"`
	EventBuffer int    `yaml:"event_buffer"` // combat event queue capacity
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Point is a YAML-friendly position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec converts to model.Vec3.
func (p Point) Vec() model.Vec3 {
	return model.V3(p.X, p.Y, p.Z)
}

// WeaponConfig configures the player's hitscan weapon.
type WeaponConfig struct {
	Damage       float64       `yaml:"damage"`
	Range        float64       `yaml:"range"`
	FireInterval time.Duration `yaml:"fire_interval"`
	MagazineSize int           `yaml:"magazine_size"`
	ReloadTime   time.Duration `yaml:"reload_time"`
	FireDelay    time.Duration `yaml:"fire_delay"` // trigger-to-impact delay, 0 = instant
}

// MeleeConfig configures an enemy close-range attack.
type MeleeConfig struct {
	Damage   float64       `yaml:"damage"`
	Range    float64       `yaml:"range"`
	Interval time.Duration `yaml:"interval"`
}

// PlayerConfig describes the player entity driven by the host.
type PlayerConfig struct {
	Name          string       `yaml:"name"`
	Position      Point        `yaml:"position"`
	MaxHealth     float64      `yaml:"max_health"`
	EyeHeight     float64      `yaml:"eye_height"`
	AutoFire      bool         `yaml:"auto_fire"`
	InteractRange float64      `yaml:"interact_range"` // reach for doors
	Weapon        WeaponConfig `yaml:"weapon"`
}

// AgentProfile is the per-enemy-type behavior and health configuration.
type AgentProfile struct {
	WalkSpeed        float64       `yaml:"walk_speed"`
	ChaseSpeed       float64       `yaml:"chase_speed"`
	SightDistance    float64       `yaml:"sight_distance"`
	IdleDuration     time.Duration `yaml:"idle_duration"`
	StoppingDistance float64       `yaml:"stopping_distance"`
	EyeHeight        float64       `yaml:"eye_height"`
	MaxHealth        float64       `yaml:"max_health"`
	Radius           float64       `yaml:"radius"`
	Waypoints        []Point       `yaml:"waypoints"`
	Melee            MeleeConfig   `yaml:"melee"`
}

// SpawnConfig places one enemy.
type SpawnConfig struct {
	Name         string        `yaml:"name"`
	Profile      string        `yaml:"profile"`
	Position     Point         `yaml:"position"`
	Respawn      bool          `yaml:"respawn"`
	RespawnDelay time.Duration `yaml:"respawn_delay"`
	CorpseDelay  time.Duration `yaml:"corpse_delay"`
}

// ObstacleConfig is a static box blocking sight and shots.
type ObstacleConfig struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

// DoorConfig is a box that blocks sight and shots while closed.
type DoorConfig struct {
	Min  Point `yaml:"min"`
	Max  Point `yaml:"max"`
	Open bool  `yaml:"open"`
}

// TurretConfig places a prop that patrols back and forth along Axis,
// Distance either side of Position.
type TurretConfig struct {
	Name     string  `yaml:"name"`
	Position Point   `yaml:"position"`
	Axis     Point   `yaml:"axis"` // zero = +X
	Distance float64 `yaml:"distance"`
	Speed    float64 `yaml:"speed"`
	Reverse  bool    `yaml:"reverse"` // first leg heads to the negative end
}

// DefaultAgentProfile returns the stock patrol grunt.
func DefaultAgentProfile() AgentProfile {
	return AgentProfile{
		WalkSpeed:        2,
		ChaseSpeed:       5,
		SightDistance:    15,
		IdleDuration:     2 * time.Second,
		StoppingDistance: 0.1,
		EyeHeight:        1.5,
		MaxHealth:        100,
		Radius:           0.5,
		Melee: MeleeConfig{
			Damage:   10,
			Range:    1.5,
			Interval: time.Second,
		},
	}
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:     "info",
		TickInterval: 50 * time.Millisecond,
		Database: DatabaseConfig{
			Enabled:     false,
			Host:        "127.0.0.1",
			Port:        5432,
			User:        "fpscore",
			Password:    "fpscore",
			DBName:      "fpscore",
			SSLMode:     "disable",
			EventBuffer: 256,
		},
		Player: PlayerConfig{
			Name:          "Player",
			MaxHealth:     100,
			EyeHeight:     1.6,
			AutoFire:      true,
			InteractRange: 3,
			Weapon: WeaponConfig{
				Damage:       25,
				Range:        50,
				FireInterval: 250 * time.Millisecond,
				MagazineSize: 12,
				ReloadTime:   1500 * time.Millisecond,
			},
		},
		Profiles: map[string]AgentProfile{
			"grunt": DefaultAgentProfile(),
		},
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyProfileDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// applyProfileDefaults fills unset profile fields from DefaultAgentProfile.
func (s *Simulation) applyProfileDefaults() {
	d := DefaultAgentProfile()
	for name, p := range s.Profiles {
		if p.WalkSpeed == 0 {
			p.WalkSpeed = d.WalkSpeed
		}
		if p.ChaseSpeed == 0 {
			p.ChaseSpeed = d.ChaseSpeed
		}
		if p.SightDistance == 0 {
			p.SightDistance = d.SightDistance
		}
		if p.StoppingDistance == 0 {
			p.StoppingDistance = d.StoppingDistance
		}
		if p.EyeHeight == 0 {
			p.EyeHeight = d.EyeHeight
		}
		if p.MaxHealth == 0 {
			p.MaxHealth = d.MaxHealth
		}
		if p.Radius == 0 {
			p.Radius = d.Radius
		}
		if p.Melee == (MeleeConfig{}) {
			p.Melee = d.Melee
		}
		s.Profiles[name] = p
	}
}

// Validate checks cross-field constraints. All problems are reported at once.
func (s Simulation) Validate() error {
	var errs []error

	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %v", s.TickInterval))
	}
	if s.Player.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("player.max_health must be positive, got %v", s.Player.MaxHealth))
	}
	for name, p := range s.Profiles {
		if p.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("profile %q: max_health must be positive", name))
		}
		if p.SightDistance < 0 || p.WalkSpeed < 0 || p.ChaseSpeed < 0 {
			errs = append(errs, fmt.Errorf("profile %q: speeds and sight_distance must not be negative", name))
		}
		if p.IdleDuration < 0 {
			errs = append(errs, fmt.Errorf("profile %q: idle_duration must not be negative", name))
		}
	}
	for i, sp := range s.Spawns {
		if _, ok := s.Profiles[sp.Profile]; !ok {
			errs = append(errs, fmt.Errorf("spawn #%d: unknown profile %q", i, sp.Profile))
		}
		if sp.RespawnDelay < 0 || sp.CorpseDelay < 0 {
			errs = append(errs, fmt.Errorf("spawn #%d: delays must not be negative", i))
		}
	}
	if s.Player.Weapon.FireDelay < 0 {
		errs = append(errs, fmt.Errorf("player.weapon.fire_delay must not be negative, got %v", s.Player.Weapon.FireDelay))
	}
	for i, tc := range s.Turrets {
		if tc.Distance < 0 || tc.Speed < 0 {
			errs = append(errs, fmt.Errorf("turret #%d: distance and speed must not be negative", i))
		}
	}

	return errors.Join(errs...)
}
