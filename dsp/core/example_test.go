package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-buttercomp/dsp/core"
)

func ExampleClampUnit() {
	fmt.Printf("%.2f %.2f %.2f\n",
		core.ClampUnit(0.75),
		core.ClampUnit(-3),
		core.ClampUnit(2))

	// Output:
	// 0.75 0.00 1.00
}

func ExampleLinearToDB() {
	fmt.Printf("%.1f dB\n", core.LinearToDB(2))
	fmt.Printf("%.1f dB\n", core.LinearToDB(1))

	// Output:
	// 6.0 dB
	// 0.0 dB
}
