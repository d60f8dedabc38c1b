package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/model"
)

func InsertUser(ctx context.Context, q Querier, u *model.User, passwordHash []byte) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO user (first_name, last_name, email, country_code, phone_number, full_phone_number, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.CountryCode,
		u.PhoneNumber,
		u.FullPhoneNumber,
		string(passwordHash),
	).Scan(&u.ID)
	if IsUniqueViolation(err) {
		return err
	}
	return errors.Wrap(err, "insert user")
}

func UserByID(ctx context.Context, q Querier, id int) (*model.User, error) {
	u := model.User{}
	err := q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, country_code, phone_number, full_phone_number
		FROM user
		WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CountryCode, &u.PhoneNumber, &u.FullPhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

func UserByEmail(ctx context.Context, q Querier, email string) (*model.User, error) {
	u := model.User{}
	err := q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, country_code, phone_number, full_phone_number
		FROM user
		WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CountryCode, &u.PhoneNumber, &u.FullPhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get user by email")
	}
	return &u, nil
}

func UpdateUser(ctx context.Context, q Querier, u *model.User) error {
	res, err := q.ExecContext(ctx, `
		UPDATE user
		SET first_name = ?, last_name = ?, email = ?, country_code = ?, phone_number = ?, full_phone_number = ?
		WHERE id = ?`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.CountryCode,
		u.PhoneNumber,
		u.FullPhoneNumber,
		u.ID,
	)
	if IsUniqueViolation(err) {
		return err
	}
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update user.verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func DeleteUser(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete user.verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}
