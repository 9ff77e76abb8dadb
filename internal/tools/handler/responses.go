package handler

type CPFCheckResponse struct {
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted,omitempty"`
}

type CPFBatchResponse struct {
	Results    []CPFCheckResponse `json:"results"`
	ValidCount int                `json:"valid_count"`
}

type CPFFormatResponse struct {
	Formatted string `json:"formatted"`
}

type ProtocolPreviewResponse struct {
	Protocol string `json:"protocol"`
	Category string `json:"category,omitempty"`
}
