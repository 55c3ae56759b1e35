package policy

import "time"

// GetBuiltinPolicies returns the built-in admission policies evaluated
// against every plan submission before it reaches the solver.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		horizonCeilingPolicy(),
		cropCategoryAllowlistPolicy(),
		fixedAreaCapacityPolicy(),
	}
}

// horizonCeilingPolicy rejects plans whose horizon exceeds the
// configured planning window ceiling (SPEC_FULL.md §11).
func horizonCeilingPolicy() Policy {
	return Policy{
		Name:        "horizon-ceiling",
		Description: "Rejects plans whose horizon exceeds the configured day ceiling",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"admission", "horizon"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package farmplan.policies.horizon

import rego.v1

max_horizon_days := 730

deny contains violation if {
	input.plan.horizon > max_horizon_days
	violation := {
		"message": sprintf("horizon %d days exceeds the %d day ceiling", [input.plan.horizon, max_horizon_days]),
		"severity": "error",
	}
}

deny contains violation if {
	input.plan.horizon <= 0
	violation := {
		"message": "horizon must be a positive number of days",
		"severity": "error",
	}
}`,
	}
}

// cropCategoryAllowlistPolicy rejects crops outside the set of
// categories this deployment is provisioned to plan for.
func cropCategoryAllowlistPolicy() Policy {
	return Policy{
		Name:        "crop-category-allowlist",
		Description: "Rejects crops whose category is not in the allowlist",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"admission", "crops"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package farmplan.policies.crops

import rego.v1

allowed_categories := {
	"vegetable", "fruit", "grain", "legume", "forage", "cover", "",
}

deny contains violation if {
	some crop in input.plan.crops
	not crop.category in allowed_categories
	violation := {
		"message": sprintf("crop %s has disallowed category %s", [crop.id, crop.category]),
		"severity": "error",
	}
}`,
	}
}

// fixedAreaCapacityPolicy flags fixed-area commitments that exceed the
// area of the land they are pinned to, a misconfiguration the solver
// would otherwise report only as an opaque infeasibility.
func fixedAreaCapacityPolicy() Policy {
	return Policy{
		Name:        "fixed-area-capacity",
		Description: "Flags fixed-area commitments that exceed their land's area",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"admission", "fixed-area"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package farmplan.policies.fixed_area

import rego.v1

deny contains violation if {
	some fa in input.plan.fixed_areas
	some land in input.plan.lands
	land.id == fa.land_id
	land.area > 0
	fa.area > land.area
	violation := {
		"message": sprintf("fixed area %.2f for land %s exceeds its area %.2f", [fa.area, land.id, land.area]),
		"severity": "warning",
	}
}

deny contains violation if {
	input.plan.by_tag_fixed_areas
	count(input.plan.by_tag_fixed_areas) > 0
	violation := {
		"message": "by-tag fixed-area aggregate form is not accepted; use per-land fixed_areas",
		"severity": "error",
	}
}`,
	}
}
