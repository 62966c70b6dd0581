package cam_test

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-cam/dsp/cam"
)

func ExampleSmooth() {
	// One hour of 1 s GHI with a cloud edge at half time.
	ghi := make([]float64, 3600)
	for i := 1800; i < len(ghi); i++ {
		ghi[i] = 1000
	}

	// 100 m of uniform plant at 1 m resolution, zero padded to 1 km.
	plant := make([]float64, 1000)
	for i := 0; i < 100; i++ {
		plant[i] = 1
	}

	res, err := cam.Smooth(1, ghi, 1, plant, 10)
	if err != nil {
		fmt.Println(err)
		return
	}

	// A 10 s transit time puts the first null of the response at 0.1 Hz.
	fmt.Println(len(res.Smoothed))
	fmt.Printf("|H(%.1f Hz)| = %.2f\n", res.Frequency[0], cmplx.Abs(res.Transfer[0]))
	fmt.Printf("|H(%.1f Hz)| = %.2f\n", res.Frequency[360], cmplx.Abs(res.Transfer[360]))

	// Output:
	// 3600
	// |H(0.0 Hz)| = 1.00
	// |H(0.1 Hz)| = 0.00
}

func ExampleSmooth_invalidSpeed() {
	_, err := cam.Smooth(1, []float64{1, 2, 3}, 1, []float64{1}, 0)
	fmt.Println(err)

	// Output:
	// cam: invalid parameter: cloud speed must be non-zero
}
