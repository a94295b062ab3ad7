// Package pkg provides the libraries of the stackbrew library generator.
//
// # Overview
//
// The generator turns the release tags of one major version into the entries
// of a Docker official-images library file. The pkg directory is organized
// into three areas:
//
//  1. Core - pure logic with no I/O ([version], [selection], [distro], [stackbrew])
//  2. Collaborators - repository access and detection ([git], [detect], [cache])
//  3. Orchestration and ambient concerns ([pipeline], [config], [errors],
//     [observability], [buildinfo])
//
// # Architecture
//
// The data flow of one run:
//
//	git ls-remote refs/tags/v{major}.*
//	         ↓
//	    [selection] (parse, drop end-of-life series, newest per series)
//	         ↓
//	    [git] fetch + [detect] (read FROM of every variant's Dockerfile)
//	         ↓
//	    [stackbrew] (latest tracking, tag expansion, manifest entries)
//	         ↓
//	    library text (or yaml/json)
//
// # Quick Start
//
//	client, err := git.Open(".", "origin")
//	if err != nil {
//	    return err
//	}
//	cfg := config.Default()
//	detector := &detect.Detector{Source: client, Distros: cfg.Distributions}
//	runner := pipeline.NewRunner(client, client, detector, stackbrew.ManifestSerializer{}, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{Major: 8})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output)
//
// [version]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/version
// [selection]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/selection
// [distro]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/distro
// [stackbrew]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/stackbrew
// [git]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/git
// [detect]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/detect
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackbrew/pkg/buildinfo
package pkg
