package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-cam/dsp/core"
	"github.com/cwbudde/algo-cam/dsp/signal"
)

func ExampleGenerator_Step() {
	g := signal.NewGenerator(core.WithSampleInterval(1))
	x, err := g.Step(0, 1000, 2, 5)
	if err != nil {
		panic(err)
	}

	fmt.Println(x)

	// Output:
	// [0 0 1000 1000 1000]
}

func ExampleGenerator_CloudCover() {
	g := signal.NewGenerator()
	x, err := g.CloudCover([]float64{800, 800, 800}, 1, 0.75, 10)
	if err != nil {
		panic(err)
	}

	fmt.Println(x)

	// Output:
	// [200 200 200]
}
