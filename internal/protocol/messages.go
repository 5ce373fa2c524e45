package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue   int `json:"max_queue,omitempty"`
	ViewRadius int `json:"view_radius,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	WorldID         string         `json:"world_id,omitempty"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	TickDurationMS       int   `json:"tick_duration_ms"`
	ChunkSize            int   `json:"chunk_size"`
	Seed                 int64 `json:"seed"`
	FactoryCooldownTicks int   `json:"factory_cooldown_ticks"`
}

type CatalogDigests struct {
	RecipesDigest   string `json:"recipes_digest"`
	BuildingsDigest string `json:"buildings_digest"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ID              string      `json:"id"`
	Action          string      `json:"action"`
	Pos             *[2]int     `json:"pos,omitempty"`
	Building        string      `json:"building,omitempty"`
	Recipe          string      `json:"recipe,omitempty"`
	PlayerPos       *[2]float64 `json:"player_pos,omitempty"`
}

// RESULT (server -> client)
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Tick            uint64 `json:"tick"`
}

// STATE (server -> client)
type StateMsg struct {
	Type              string          `json:"type"`
	ProtocolVersion   string          `json:"protocol_version"`
	Tick              uint64          `json:"tick"`
	Score             int             `json:"score"`
	UpgraderPower     int             `json:"upgrader_power"`
	UpgraderPowerCost int             `json:"upgrader_power_cost"`
	Player            PlayerState     `json:"player"`
	Buildings         []BuildingState `json:"buildings"`
	Resources         []ResourceState `json:"resources"`
	Items             []ItemState     `json:"items"`
	View              ViewState       `json:"view"`
}

type PlayerState struct {
	Pos       [2]float64     `json:"pos"`
	Inventory map[string]int `json:"inventory"`
}

type BuildingState struct {
	Key          string `json:"key"`
	Type         string `json:"type"`
	Direction    int    `json:"direction"`
	Cooldown     int    `json:"cooldown,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

type ResourceState struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type ItemState struct {
	ID    uint64 `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Value int    `json:"value"`
}

type ViewState struct {
	Center [2]int `json:"center"`
	Radius int    `json:"radius"`
}
