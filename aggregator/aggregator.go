// Package aggregator implements the Aggregator (C7): it merges each PBR's
// resources, in load order, into the Bundle's global file tables and
// ordered load lists.
package aggregator

import (
	"fmt"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/validation"
)

// Options configures the Aggregator's handling of spec.md's open questions.
type Options struct {
	// StrictServerCSS turns the legacy silent-drop of server-side CSS
	// (I5) into a resource-type error instead. Off by default.
	StrictServerCSS bool
}

// Aggregate walks bundle.PBRsByOrder (C4/C5/C6 must have already run) and
// merges every resource into the bundle's global tables, per spec.md §4.5.
func Aggregate(bundle *model.Bundle, opts Options) error {
	for _, pbr := range bundle.PBRsByOrder {
		for _, env := range model.Environments {
			if !pbr.Presence[env] {
				continue
			}
			for _, r := range pbr.Resources[env] {
				if err := aggregateOne(bundle, pbr, env, r, opts); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func aggregateOne(bundle *model.Bundle, pbr *model.PBR, env model.Environment, r model.Resource, opts Options) error {
	switch r.Type {
	case model.ResourceJS:
		if err := writeFile(bundle, env, r.ServePath, r.Data); err != nil {
			return err
		}
		bundle.JS[env] = append(bundle.JS[env], r.ServePath)

	case model.ResourceCSS:
		if env == model.EnvServer {
			if opts.StrictServerCSS {
				return validation.ErrorList{validation.ResourceTypeError(pbr.Key().PackageID, string(r.Type))}
			}
			return nil // I5: server CSS is silently dropped.
		}
		if err := writeFile(bundle, model.EnvClient, r.ServePath, r.Data); err != nil {
			return err
		}
		bundle.CSS = append(bundle.CSS, r.ServePath)

	case model.ResourceStatic:
		if err := writeFile(bundle, env, r.ServePath, r.Data); err != nil {
			return err
		}
		bundle.Static[env] = append(bundle.Static[env], r.ServePath)

	case model.ResourceHead:
		if env != model.EnvClient {
			return validation.ErrorList{validation.ResourceTypeError(pbr.Key().PackageID, string(r.Type))}
		}
		bundle.Head = append(bundle.Head, string(r.Data))

	case model.ResourceBody:
		if env != model.EnvClient {
			return validation.ErrorList{validation.ResourceTypeError(pbr.Key().PackageID, string(r.Type))}
		}
		bundle.Body = append(bundle.Body, string(r.Data))

	default:
		return validation.ErrorList{validation.ResourceTypeError(pbr.Key().PackageID, string(r.Type))}
	}
	return nil
}

// writeFile records data at servePath in env's file table. A second write
// to the same serve-path with differing content is a conflict (spec.md §7):
// the bundler never silently overwrites, unlike the informal "later writes
// logically overwrite" framing in §4.5. A repeated write of identical
// content is accepted.
func writeFile(bundle *model.Bundle, env model.Environment, servePath string, data []byte) error {
	table := bundle.Files[env]
	if existing, ok := table[servePath]; ok && string(existing) != string(data) {
		return validation.ErrorList{validation.IOError(servePath,
			fmt.Errorf("serve-path %q written more than once with differing content in environment %q", servePath, env))}
	}
	table[servePath] = data
	return nil
}
