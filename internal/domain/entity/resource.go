package entity

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRegion é a região usada quando uma referência não informa a sua.
const DefaultRegion = "us-east-1"

// ErrMalformedReference is returned when a resource reference cannot be parsed.
var ErrMalformedReference = errors.New("malformed resource reference")

// ServiceType identifica a categoria do recurso.
type ServiceType string

const (
	ServiceEC2      ServiceType = "EC2"
	ServiceRDS      ServiceType = "RDS"
	ServiceVM       ServiceType = "VM"
	ServiceDatabase ServiceType = "Database"
)

// ParseServiceType converte uma string (case-insensitive) em ServiceType.
func ParseServiceType(s string) (ServiceType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EC2":
		return ServiceEC2, nil
	case "RDS":
		return ServiceRDS, nil
	case "VM":
		return ServiceVM, nil
	case "DATABASE":
		return ServiceDatabase, nil
	}
	return "", fmt.Errorf("%w: unknown service type %q", ErrMalformedReference, s)
}

// IsCompute reports whether the service type is a compute instance.
func (s ServiceType) IsCompute() bool {
	return s == ServiceEC2 || s == ServiceVM
}

// IsManagedDatabase reports whether the service type is a managed database.
func (s ServiceType) IsManagedDatabase() bool {
	return s == ServiceRDS || s == ServiceDatabase
}

// OSFamily é a família de sistema operacional de uma instância de computação.
type OSFamily string

const (
	OSLinux   OSFamily = "Linux"
	OSWindows OSFamily = "Windows"
)

// ParseOSFamily maps a provider platform string to an OSFamily. Anything that
// is not Windows is treated as Linux.
func ParseOSFamily(platform string) OSFamily {
	if strings.EqualFold(strings.TrimSpace(platform), "windows") {
		return OSWindows
	}
	return OSLinux
}

// ResourceRef é a chave de identidade de um recurso selecionado.
type ResourceRef struct {
	ServiceType ServiceType `json:"service_type"`
	ID          string      `json:"id"`
	Region      string      `json:"region"`
}

// String encodes the reference back to the "type|id|region" form.
func (r ResourceRef) String() string {
	return fmt.Sprintf("%s|%s|%s", r.ServiceType, r.ID, r.Region)
}

// ParseResourceRef decodifica "type|id|region". Uma string com uma única parte
// é aceita pelo caminho degradado: prefixo "i-" vira EC2, o resto RDS, na
// região padrão.
func ParseResourceRef(raw string) (Outcome[ResourceRef], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Outcome[ResourceRef]{}, fmt.Errorf("%w: empty reference", ErrMalformedReference)
	}

	parts := strings.Split(raw, "|")
	switch len(parts) {
	case 3:
		serviceType, err := ParseServiceType(parts[0])
		if err != nil {
			return Outcome[ResourceRef]{}, err
		}
		id := strings.TrimSpace(parts[1])
		region := strings.TrimSpace(parts[2])
		if id == "" || region == "" {
			return Outcome[ResourceRef]{}, fmt.Errorf("%w: %q has an empty id or region", ErrMalformedReference, raw)
		}
		return Clean(ResourceRef{ServiceType: serviceType, ID: id, Region: region}), nil
	case 1:
		ref := ResourceRef{ServiceType: ServiceRDS, ID: raw, Region: DefaultRegion}
		if strings.HasPrefix(raw, "i-") {
			ref.ServiceType = ServiceEC2
		}
		reason := fmt.Sprintf("reference %q inferred as %s in %s", raw, ref.ServiceType, ref.Region)
		return Fallback(ref, reason), nil
	default:
		return Outcome[ResourceRef]{}, fmt.Errorf("%w: %q", ErrMalformedReference, raw)
	}
}

// ResourceDescriptor é o registro de um recurso descoberto no inventário.
type ResourceDescriptor struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	OS          string      `json:"os,omitempty"`
	Engine      string      `json:"engine,omitempty"`
	State       string      `json:"state"`
	Region      string      `json:"region"`
	ServiceType ServiceType `json:"service_type"`
}

// Ref returns the identity key of the descriptor.
func (d ResourceDescriptor) Ref() ResourceRef {
	return ResourceRef{ServiceType: d.ServiceType, ID: d.ID, Region: d.Region}
}

// OSFamily returns the operating system family for compute resources.
func (d ResourceDescriptor) OSFamily() OSFamily {
	return ParseOSFamily(d.OS)
}

// IsStopped indica se o recurso não produz métricas.
func (d ResourceDescriptor) IsStopped() bool {
	switch strings.ToLower(d.State) {
	case "stopped", "stopping", "terminated", "shutting-down":
		return true
	}
	return false
}
