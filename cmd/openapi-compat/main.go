// Package main checks that the API contract stays backward compatible with
// shipped mobile clients. It compares a committed baseline swagger document
// against the one compiled into the docs package (or a second file).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"vzsocial/docs"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

type operation struct {
	Responses  map[string]struct{}
	Parameters map[string]bool // name -> required
}

type parsedSpec struct {
	Paths map[string]map[string]operation
}

func main() {
	basePath := flag.String("base", "", "baseline swagger document (JSON or YAML)")
	revisionPath := flag.String("revision", "", "revision document; defaults to the compiled docs package")
	write := flag.Bool("write", false, "write the compiled document to -base instead of checking")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>] [-write]")
		os.Exit(2)
	}

	current := []byte(docs.SwaggerInfo.ReadDoc())
	if *write {
		if err := os.WriteFile(*basePath, current, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write baseline: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("baseline written to %s\n", *basePath)
		return
	}

	baseSpec, err := loadSpec(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}

	var revisionSpec parsedSpec
	if *revisionPath != "" {
		revisionSpec, err = loadSpec(*revisionPath)
	} else {
		revisionSpec, err = parseSpec(current)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	issues := compare(baseSpec, revisionSpec)
	if len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func loadSpec(path string) (parsedSpec, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return parsedSpec{}, err
	}
	return parseSpec(raw)
}

// parseSpec accepts YAML or JSON; JSON documents are valid YAML.
func parseSpec(raw []byte) (parsedSpec, error) {
	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return parsedSpec{}, err
	}

	pathsMap, ok := toMap(doc["paths"])
	if !ok {
		return parsedSpec{}, errors.New("missing or malformed top-level paths field")
	}

	spec := parsedSpec{Paths: make(map[string]map[string]operation)}
	for pathKey, pathEntry := range pathsMap {
		pathOps, ok := toMap(pathEntry)
		if !ok {
			continue
		}

		ops := make(map[string]operation)
		for methodKey, methodEntry := range pathOps {
			method := strings.ToLower(strings.TrimSpace(methodKey))
			if _, supported := supportedMethods[method]; !supported {
				continue
			}
			methodMap, ok := toMap(methodEntry)
			if !ok {
				continue
			}

			op := operation{Responses: map[string]struct{}{}, Parameters: map[string]bool{}}
			if responses, ok := toMap(methodMap["responses"]); ok {
				for code := range responses {
					if c := strings.ToLower(strings.TrimSpace(code)); c != "" {
						op.Responses[c] = struct{}{}
					}
				}
			}
			if params, ok := methodMap["parameters"].([]any); ok {
				for _, p := range params {
					pm, ok := toMap(p)
					if !ok {
						continue
					}
					name, _ := pm["name"].(string)
					required, _ := pm["required"].(bool)
					if name != "" {
						op.Parameters[name] = required
					}
				}
			}
			ops[method] = op
		}

		if len(ops) > 0 {
			spec.Paths[pathKey] = ops
		}
	}

	return spec, nil
}

func toMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// compare lists changes that would break a client built against base:
// removed paths, operations or response codes, and newly required parameters.
func compare(base, revision parsedSpec) []string {
	var issues []string

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			label := strings.ToUpper(method) + " " + path

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", label, strings.ToUpper(code)))
				}
			}
			for name, required := range revOp.Parameters {
				wasRequired, existed := baseOp.Parameters[name]
				if required && (!existed || !wasRequired) {
					issues = append(issues, fmt.Sprintf("new required parameter: %s -> %s", label, name))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
