package dataaggregator

import (
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/util"
)

type Provider int

const (
	ProviderNone Provider = iota
	ProviderTransportAPI
	ProviderTfL
	ProviderSmartPlanner
)

func (p Provider) String() string {
	switch p {
	case ProviderTransportAPI:
		return "transportapi"
	case ProviderTfL:
		return "tfl"
	case ProviderSmartPlanner:
		return "smart"
	case ProviderNone:
		return "none"
	default:
		return "unknown"
	}
}

var (
	ErrNoProviderConfigured = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryConfiguration,
		Code:       "no_provider",
		Message:    "Journey planning is not configured",
		Suggestion: "Enable the smart planner with TRAVIGO_SMART_PLANNER=YES, or add TransportAPI or TfL credentials",
	}
	ErrSmartPlannerNotConfigured = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryConfiguration,
		Code:       "smart_planner_not_configured",
		Message:    "Smart journey planner is not initialised",
		Suggestion: "Restart the service so the board client and interchange catalog are loaded",
	}
)

type Credentials struct {
	TransportAPIAppID  string
	TransportAPIAppKey string

	TfLAppID  string
	TfLAppKey string

	SmartPlannerEnabled bool
}

// SelectProvider picks a provider in a fixed order: TransportAPI, TfL, then the smart planner
func SelectProvider(credentials Credentials) Provider {
	switch {
	case credentials.TransportAPIAppID != "" && credentials.TransportAPIAppKey != "":
		return ProviderTransportAPI
	case credentials.TfLAppKey != "":
		return ProviderTfL
	case credentials.SmartPlannerEnabled:
		return ProviderSmartPlanner
	default:
		return ProviderNone
	}
}

func CredentialsFromEnvironment() Credentials {
	env := util.GetEnvironmentVariables()

	return Credentials{
		TransportAPIAppID:   env["TRAVIGO_TRANSPORTAPI_APP_ID"],
		TransportAPIAppKey:  env["TRAVIGO_TRANSPORTAPI_APP_KEY"],
		TfLAppID:            env["TRAVIGO_TFL_APP_ID"],
		TfLAppKey:           env["TRAVIGO_TFL_API_KEY"],
		SmartPlannerEnabled: util.EnvironmentFlagEnabled(env["TRAVIGO_SMART_PLANNER"], true),
	}
}
