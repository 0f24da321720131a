package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS airlines (
    airline_id    BIGSERIAL     PRIMARY KEY,
    airline_name  VARCHAR(100)  NOT NULL
);

CREATE TABLE IF NOT EXISTS flights (
    flight_id        BIGSERIAL      PRIMARY KEY,
    flight_number    VARCHAR(10)    NOT NULL,
    origin           VARCHAR(5)     NOT NULL,
    destination      VARCHAR(5)     NOT NULL,
    departure_time   TIMESTAMPTZ    NOT NULL,
    arrival_time     TIMESTAMPTZ    NOT NULL,
    price            NUMERIC(10,2)  NOT NULL CHECK (price >= 0),
    distance_km      NUMERIC(10,2)  NOT NULL DEFAULT 0,
    available_seats  INT            NOT NULL CHECK (available_seats >= 0),
    airline_id       BIGINT         REFERENCES airlines(airline_id)
);

CREATE INDEX IF NOT EXISTS flights_route_idx ON flights (origin, destination);

CREATE TABLE IF NOT EXISTS users (
    user_id     BIGSERIAL     PRIMARY KEY,
    first_name  VARCHAR(50)   NOT NULL,
    last_name   VARCHAR(50)   NOT NULL,
    email       VARCHAR(100)  NOT NULL UNIQUE,
    seat_pref   VARCHAR(10)
);

CREATE TABLE IF NOT EXISTS bookings (
    booking_id      BIGSERIAL      PRIMARY KEY,
    user_id         BIGINT         NOT NULL REFERENCES users(user_id),
    total_price     NUMERIC(10,2)  NOT NULL,
    status          VARCHAR(10)    NOT NULL,
    travel_purpose  VARCHAR(20),
    booking_date    TIMESTAMPTZ    NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS passengers (
    passenger_id  BIGSERIAL    PRIMARY KEY,
    booking_id    BIGINT       NOT NULL REFERENCES bookings(booking_id),
    first_name    VARCHAR(50)  NOT NULL,
    last_name     VARCHAR(50)  NOT NULL,
    age           INT          NOT NULL
);

CREATE TABLE IF NOT EXISTS booking_flights (
    booking_id      BIGINT  NOT NULL REFERENCES bookings(booking_id),
    flight_id       BIGINT  NOT NULL REFERENCES flights(flight_id),
    num_passengers  INT     NOT NULL,
    PRIMARY KEY (booking_id, flight_id)
);
`

// Connect opens a pgx pool against the given URL, verifies the
// connection and applies the schema.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return pool, nil
}
