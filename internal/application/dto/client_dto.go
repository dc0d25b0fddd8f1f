package dto

// CreateClientRequest body para POST /api/admin/clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	CreatedAt string `json:"created_at"`
}

// CreateProjectRequest body para POST /api/admin/clients/:id/projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest body para PUT /api/admin/clients/:id/projects/:pid.
type UpdateProjectRequest struct {
	Status   string                 `json:"status,omitempty"`
	Progress *int                   `json:"progress,omitempty"`
	Timeline []TimelinePhaseRequest `json:"timeline,omitempty"`
}

// ProjectResponse proyecto de cliente en respuestas.
type ProjectResponse struct {
	ID          string                  `json:"id"`
	ClientID    string                  `json:"client_id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Status      string                  `json:"status"`
	Progress    int                     `json:"progress"`
	Timeline    []TimelinePhaseResponse `json:"timeline"`
	CreatedAt   string                  `json:"created_at"`
}
