package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Unique key names referenced when classifying duplicate-key errors.
const (
	KeyBookingGuestRoomCheckIn = "uq_bookings_guest_room_check_in"
	KeyBookingLocator          = "uq_bookings_locator"
	KeyBookingUUID             = "uq_bookings_uuid"
	KeyGuestEmail              = "uq_guests_email"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		floor_no    INT NOT NULL,
		room_no     INT NOT NULL,
		name        VARCHAR(100) NOT NULL DEFAULT '',
		sgl_beds    INT NOT NULL DEFAULT 0,
		dbl_beds    INT NOT NULL DEFAULT 0,
		supplement  DOUBLE NOT NULL DEFAULT 0,
		code        VARCHAR(20) NOT NULL,
		deleted_at  DATETIME NULL,
		UNIQUE KEY uq_rooms_floor_room (floor_no, room_no),
		UNIQUE KEY uq_rooms_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seasons (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		date_from   DATE NOT NULL,
		date_to     DATE NOT NULL,
		base_price  DOUBLE NOT NULL,
		bed_price   DOUBLE NOT NULL DEFAULT 0,
		published   BOOLEAN NOT NULL DEFAULT FALSE,
		CONSTRAINT ck_seasons_range CHECK (date_from < date_to),
		KEY ix_seasons_range (published, date_from, date_to)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS guests (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(50) NOT NULL,
		surname       VARCHAR(50) NOT NULL,
		gender        VARCHAR(10) NOT NULL DEFAULT '',
		email         VARCHAR(255) NOT NULL,
		passport      VARCHAR(50) NOT NULL DEFAULT '',
		birthdate     DATE NULL,
		address1      VARCHAR(100) NOT NULL DEFAULT '',
		address2      VARCHAR(100) NOT NULL DEFAULT '',
		locality      VARCHAR(50) NOT NULL DEFAULT '',
		postcode      VARCHAR(10) NOT NULL DEFAULT '',
		province      VARCHAR(50) NOT NULL DEFAULT '',
		country       VARCHAR(2) NOT NULL DEFAULT '',
		home_phone    VARCHAR(20) NOT NULL DEFAULT '',
		mobile_phone  VARCHAR(20) NOT NULL DEFAULT '',
		deleted_at    DATETIME NULL,
		UNIQUE KEY ` + KeyGuestEmail + ` (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS extras (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		code         VARCHAR(20) NOT NULL,
		name         VARCHAR(100) NOT NULL,
		description  VARCHAR(255) NOT NULL DEFAULT '',
		price        DOUBLE NOT NULL DEFAULT 0,
		deleted_at   DATETIME NULL,
		UNIQUE KEY uq_extras_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		id_guest          BIGINT UNSIGNED NOT NULL,
		id_room           BIGINT UNSIGNED NOT NULL,
		guests            INT NOT NULL,
		check_in          DATE NOT NULL,
		check_out         DATE NOT NULL,
		base_price        DOUBLE NOT NULL,
		taxes_percentage  DOUBLE NOT NULL,
		taxes_value       DOUBLE NOT NULL,
		total_price       DOUBLE NOT NULL,
		status            ENUM('New','Pending','Confirmed','Cancelled','Closed') NOT NULL DEFAULT 'New',
		meal_plan         ENUM('RoomOnly','BedAndBreakfast','HalfBoard','FullBoard','AllInclusive','Special') NOT NULL DEFAULT 'BedAndBreakfast',
		extras            JSON NULL,
		locator           CHAR(8) NOT NULL,
		pin               CHAR(4) NOT NULL,
		uuid              CHAR(36) NOT NULL,
		reserved_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		cancelled_at      DATETIME NULL,
		deleted_at        DATETIME NULL,
		CONSTRAINT ck_bookings_range CHECK (check_in < check_out),
		CONSTRAINT fk_bookings_guest FOREIGN KEY (id_guest) REFERENCES guests(id),
		CONSTRAINT fk_bookings_room FOREIGN KEY (id_room) REFERENCES rooms(id),
		UNIQUE KEY ` + KeyBookingGuestRoomCheckIn + ` (id_guest, id_room, check_in),
		UNIQUE KEY ` + KeyBookingLocator + ` (locator),
		UNIQUE KEY ` + KeyBookingUUID + ` (uuid),
		KEY ix_bookings_room_range (id_room, check_in, check_out)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS logins (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username    VARCHAR(50) NOT NULL,
		email       VARCHAR(255) NOT NULL,
		password    VARCHAR(255) NOT NULL,
		is_admin    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_logins_username (username),
		UNIQUE KEY uq_logins_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.  Statements are idempotent so it is safe
// to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
