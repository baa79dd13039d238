package usuarios

import "time"

// User is the identity object returned by the backend. Roles are embedded
// with their permissions expanded.
type User struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Roles       []Role    `json:"roles"`
}

// Role groups permissions under an opaque name. The client attaches no
// semantics to it.
type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	Permissions []Permission `json:"permissions"`
}

// Permission is an opaque grant record.
type Permission struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	Resource    string     `json:"resource,omitempty"`
	Action      string     `json:"action,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// UserCreate is the payload for CreateUser.
type UserCreate struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
	RoleIDs   []int  `json:"role_ids,omitempty"`
}

// UserUpdate is the payload for UpdateUser. Nil fields are left unchanged.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	RoleIDs   []int   `json:"role_ids,omitempty"`
}

// RoleCreate is the payload for CreateRole.
type RoleCreate struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty"`
	PermissionIDs []int  `json:"permission_ids,omitempty"`
}

// RoleUpdate is the payload for UpdateRole. Nil fields are left unchanged.
type RoleUpdate struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	PermissionIDs []int   `json:"permission_ids,omitempty"`
}

// PermissionCreate is the payload for CreatePermission.
type PermissionCreate struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Resource    string `json:"resource,omitempty"`
	Action      string `json:"action,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// PermissionUpdate is the payload for UpdatePermission.
type PermissionUpdate struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Resource    *string `json:"resource,omitempty"`
	Action      *string `json:"action,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// EmailConfig is a stored SMTP configuration. The SMTP password is
// write-only and never echoed back by the backend.
type EmailConfig struct {
	ID           int        `json:"id"`
	Provider     string     `json:"provider"`
	SMTPHost     string     `json:"smtp_host"`
	SMTPPort     int        `json:"smtp_port"`
	SMTPUsername string     `json:"smtp_username"`
	SenderEmail  string     `json:"sender_email"`
	SenderName   string     `json:"sender_name"`
	UseTLS       bool       `json:"use_tls"`
	UseSSL       bool       `json:"use_ssl"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// EmailConfigCreate is the payload for CreateEmailConfig.
type EmailConfigCreate struct {
	Provider     string `json:"provider"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	SenderEmail  string `json:"sender_email"`
	SenderName   string `json:"sender_name"`
	UseTLS       bool   `json:"use_tls"`
	UseSSL       bool   `json:"use_ssl"`
	IsActive     bool   `json:"is_active"`
}

// EmailConfigUpdate is the payload for UpdateEmailConfig.
type EmailConfigUpdate struct {
	Provider     *string `json:"provider,omitempty"`
	SMTPHost     *string `json:"smtp_host,omitempty"`
	SMTPPort     *int    `json:"smtp_port,omitempty"`
	SMTPUsername *string `json:"smtp_username,omitempty"`
	SMTPPassword *string `json:"smtp_password,omitempty"`
	SenderEmail  *string `json:"sender_email,omitempty"`
	SenderName   *string `json:"sender_name,omitempty"`
	UseTLS       *bool   `json:"use_tls,omitempty"`
	UseSSL       *bool   `json:"use_ssl,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// EmailProviderPreset is a ready-made SMTP profile offered by the backend.
type EmailProviderPreset struct {
	Name         string `json:"name"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	UseTLS       bool   `json:"use_tls"`
	UseSSL       bool   `json:"use_ssl"`
	Instructions string `json:"instructions"`
}
