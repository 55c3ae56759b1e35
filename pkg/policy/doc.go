// Package policy provides Open Policy Agent (OPA) admission checks for
// plan submissions.
//
// Every plan is evaluated against a set of Rego policies before it
// reaches the solver. A plan that fails an error/critical-severity
// policy is rejected with the recorded violations; warning-severity
// violations are returned alongside an Allowed result so a caller can
// surface them without blocking.
//
// # Architecture
//
//  1. Engine - compiles and evaluates Rego policies against a plan
//  2. Loader - loads additional policies from files and directories
//  3. Types - policy, violation, and result data structures
//  4. Built-in policies - horizon ceilings, crop-category allowlists,
//     fixed-area-vs-capacity sanity
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	engine, err := policy.NewEngine(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := engine.Evaluate(ctx, plan)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Allowed {
//	    for _, v := range result.Violations {
//	        fmt.Printf("policy %s violated: %s\n", v.Policy, v.Message)
//	    }
//	}
//
// Loading operator-supplied policies on top of the built-ins:
//
//	err = engine.LoadPolicies(ctx, []string{"/etc/farmplan/policies"})
//
// # Built-in policies
//
//  1. horizon-ceiling - rejects plans whose horizon exceeds the day ceiling
//  2. crop-category-allowlist - rejects crops outside the allowed categories
//  3. fixed-area-capacity - flags fixed-area commitments that exceed their land's area
//
// # Custom policies
//
// Custom policies are Rego modules with a deny rule:
//
//	package custom.policies.irrigation
//
//	import rego.v1
//
//	deny contains violation if {
//	    some crop in input.plan.crops
//	    crop.category == "vegetable"
//	    not crop.irrigation_required
//	    violation := {
//	        "message": sprintf("crop %s is missing an irrigation requirement", [crop.id]),
//	        "severity": "warning",
//	    }
//	}
//
// # Severity levels
//
//   - info: informational, never blocks
//   - warning: reviewed but does not block
//   - error: blocks the plan from solving
//   - critical: severe, blocks the plan from solving
//
// # Hot reload
//
// Engine.Watch loads policies from paths and keeps them recompiled as
// the underlying files change:
//
//	err = engine.Watch(ctx, []string{"/etc/farmplan/policies"})
package policy
