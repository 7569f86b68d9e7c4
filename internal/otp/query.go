package otp

// Bounding box covering the Hungarian rail network, matching the reference
// deployment.
const (
	boundsSWLat = 45.5
	boundsSWLon = 16.1
	boundsNELat = 48.7
	boundsNELon = 22.8
)

// vehiclePositionsQuery selects every field the normalizer consumes in a
// single request, including the encoded trip geometry, so one fetch cycle is
// exactly one round trip.
const vehiclePositionsQuery = `
{
    vehiclePositions(
      swLat: 45.5,
      swLon: 16.1,
      neLat: 48.7,
      neLon: 22.8,
      modes: [RAIL, RAIL_REPLACEMENT_BUS]
    ) {
      vehicleId
      lat
      lon
      label
      speed
      lastUpdated
      trip {
        gtfsId
        tripShortName
        tripHeadsign
        trainCategoryName
        trainName
        tripGeometry {
          length
          points
        }
        route {
          gtfsId
          shortName
          longName
          textColor
          color
        }
        stoptimes {
          stop {
            name
            lat
            lon
            platformCode
          }
          scheduledArrival
          realtimeArrival
          arrivalDelay
          scheduledDeparture
          realtimeDeparture
        }
      }
      prevOrCurrentStop {
        arrivalDelay
        departureDelay
      }
    }
}`
