package model

// VersionInfo is returned by the version endpoint.
type VersionInfo struct {
	Build       string `json:"build"`
	GoVersion   string `json:"goVersion"`
	StoreDriver string `json:"store"`
}
