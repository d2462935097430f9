package models

// TemplateInfo summarizes one template folder for listing across the UI
// boundary. DocumentFiles keeps .docx entries before .doc entries.
type TemplateInfo struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	HasConfig     bool     `json:"has_config"`
	ConfigFile    string   `json:"config_file"`
	DocumentFiles []string `json:"docx_files"`
	FileCount     int      `json:"file_count"`
}
