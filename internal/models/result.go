package models

type ProcessResumeResponse struct {
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	TextContent string `json:"textContent"`
	Status      string `json:"status"`
}

type AnalyzeRequest struct {
	ResumeText string         `json:"resumeText"`
	JDData     map[string]any `json:"jdData"`
}

// ManageJDRequest is the POST body of ManageJD. Delete selects removal of ID;
// otherwise Data is upserted under ID (a new id is minted when ID is blank).
type ManageJDRequest struct {
	ID     string         `json:"id"`
	Data   map[string]any `json:"data"`
	Delete bool           `json:"delete"`
}

type ManageJDResponse struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ImportedJD struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ImportJDResponse struct {
	Status   string       `json:"status"`
	Imported int          `json:"imported"`
	Items    []ImportedJD `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
