// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolver_test

import (
	"context"
	"fmt"

	resolver "github.com/padkeeper/resolver"
)

func ExampleSolve() {
	idx := resolver.NewIndex()

	rightPad := resolver.NewPackage().
		Insert(resolver.MustParseVersion("1.0.0"), resolver.NewDependencies().
			Insert("acme/up-pad", mustVC("^1.0.0"))).
		Insert(resolver.MustParseVersion("2.0.1"), resolver.NewDependencies().
			Insert("acme/up-pad", mustVC("^2.0.0")).
			Insert("acme/coleft-copad", mustVC("^2.0.0")))
	idx = idx.Insert("acme/right-pad", rightPad)

	leftPad := resolver.NewPackage().
		Insert(resolver.MustParseVersion("1.0.0"), resolver.NewDependencies().Insert("acme/right-pad", mustVC("^1.0.0"))).
		Insert(resolver.MustParseVersion("2.0.0"), resolver.NewDependencies().Insert("acme/right-pad", mustVC("^2.0.0")))
	idx = idx.Insert("acme/left-pad", leftPad)

	idx = idx.Insert("acme/up-pad", resolver.NewPackage().
		Insert(resolver.MustParseVersion("1.0.0"), resolver.NewDependencies()).
		Insert(resolver.MustParseVersion("2.0.0"), resolver.NewDependencies()))
	idx = idx.Insert("acme/coleft-copad", resolver.NewPackage().
		Insert(resolver.MustParseVersion("2.0.0"), resolver.NewDependencies()))
	idx = idx.Insert("acme/down-pad", resolver.NewPackage().
		Insert(resolver.MustParseVersion("1.2.0"), resolver.NewDependencies()))

	deps := resolver.NewDependencies().
		Insert("acme/down-pad", mustVC("^1.0.0")).
		Insert("acme/left-pad", mustVC("^2.0.0"))

	sol, err := resolver.Solve(context.Background(), idx, deps)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, pkg := range sol.Packages() {
		v, _ := sol.Get(pkg)
		fmt.Printf("%s %s\n", pkg, v)
	}
	// Output:
	// acme/coleft-copad 2.0.0
	// acme/down-pad 1.2.0
	// acme/left-pad 2.0.0
	// acme/right-pad 2.0.1
	// acme/up-pad 2.0.0
}

func mustVC(s string) resolver.VersionConstraint {
	vc, err := resolver.ParseVersionConstraint(s)
	if err != nil {
		panic(err)
	}
	return vc
}
