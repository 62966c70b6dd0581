package signal

import (
	"fmt"
	"math"
	"time"
)

const solarConstant = 1361.0 // W/m²

// ClearSky generates global horizontal irradiance in W/m² under a clear sky
// at the given site, one value per sample starting at start.
//
// The model is the simplified Ineichen-Perez form: Kasten-Young air mass,
// a fixed Linke turbidity of 2 and a seasonal diffuse fraction. It is meant
// as a smooth, realistic carrier for synthetic cloud edges, not as a
// reference irradiance model. Samples with the sun below the horizon are 0.
func (g *Generator) ClearSky(start time.Time, latitude, longitude, altitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("clear sky samples must be > 0: %d", samples)
	}
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("clear sky latitude out of range [-90, 90]: %f", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("clear sky longitude out of range [-180, 180]: %f", longitude)
	}
	if start.IsZero() {
		start = g.cfg.Start
	}

	step := time.Duration(g.cfg.SampleInterval * float64(time.Second))
	out := make([]float64, samples)
	for i := range out {
		out[i] = clearSkyGHI(start.Add(time.Duration(i)*step).UTC(), latitude, longitude, altitude)
	}
	return out, nil
}

func clearSkyGHI(t time.Time, latitude, longitude, altitude float64) float64 {
	day := float64(t.YearDay())

	decl := 23.45 * math.Sin(rad(360.0/365.0*(day-81)))

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	solarMin := utcMin + 4*longitude + equationOfTime(t)
	hourAngle := solarMin/4 - 180

	cosZ := math.Sin(rad(latitude))*math.Sin(rad(decl)) +
		math.Cos(rad(latitude))*math.Cos(rad(decl))*math.Cos(rad(hourAngle))
	zenith := deg(math.Acos(core.Clamp(cosZ, -1, 1)))
	if zenith >= 90 {
		return 0
	}

	g0 := solarConstant * (1 + 0.033*math.Cos(rad(360*(day-3)/365)))

	const (
		turbidity  = 2.0
		beamScale  = 0.7
		extinction = 0.027
	)
	airMass := 1 / (math.Cos(rad(zenith)) + 0.50572*math.Pow(96.07995-zenith, -1.6364))
	dni := g0 * beamScale * math.Exp(-extinction*airMass*turbidity*math.Exp(-altitude/8000))

	diffuse := 0.1 + 0.05*math.Sin(math.Pi*(day-100)/365)
	dhi := diffuse * g0 * math.Sin(rad(zenith))

	return dni*math.Cos(rad(zenith)) + dhi
}

// equationOfTime returns apparent minus mean solar time in minutes.
func equationOfTime(t time.Time) float64 {
	jd := 2440587.5 + float64(t.Unix())/86400
	c := (jd - 2451545) / 36525

	l0 := wrapDegrees(280.46646 + c*(36000.76983+c*0.0003032))
	m := wrapDegrees(357.52911 + c*(35999.05029-c*0.0001537))
	e := 0.016708634 - c*(0.000042037+c*0.0000001267)
	obliquity := 23 + (26+(21.448-c*(46.815+c*(0.00059-c*0.001813)))/60)/60

	y := math.Tan(rad(obliquity) / 2)
	y *= y

	eq := y*math.Sin(2*rad(l0)) -
		2*e*math.Sin(rad(m)) +
		4*e*y*math.Sin(rad(m))*math.Cos(2*rad(l0)) -
		0.5*y*y*math.Sin(4*rad(l0)) -
		1.25*e*e*math.Sin(2*rad(m))
	return deg(eq) * 4
}

func rad(d float64) float64 { return d * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
