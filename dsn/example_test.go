// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dsn

import "fmt"

func ExampleParse() {
	d, err := Parse("http://project1_secret_token@localhost:14317/1")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(d.OTLPHost())
	fmt.Println(d.OTLPGrpcAddr())
	fmt.Println(d.AppAddr())
	// Output:
	// localhost:14317
	// http://localhost:14317
	// http://localhost:14318
}
