package converters

import (
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Register строит команду регистрации из полей username, email, password, first_name, last_name.
func Register(in Input) (dtos.RegisterCommand, error) {
	if err := in.requireFields("username", "email", "password", "first_name", "last_name"); err != nil {
		return dtos.RegisterCommand{}, err
	}

	var (
		cmd dtos.RegisterCommand
		err error
	)
	if cmd.Username, err = valueobjects.NewUsername(in.Fields["username"]); err != nil {
		return cmd, err
	}
	if cmd.Email, err = valueobjects.NewEmail(in.Fields["email"]); err != nil {
		return cmd, err
	}
	if cmd.Password, err = valueobjects.NewPassword(in.Fields["password"]); err != nil {
		return cmd, err
	}
	if cmd.FirstName, err = valueobjects.NewFirstName(in.Fields["first_name"]); err != nil {
		return cmd, err
	}
	if cmd.LastName, err = valueobjects.NewLastName(in.Fields["last_name"]); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// Login требует только наличия email и password, формат не проверяется.
func Login(in Input) (dtos.LoginCommand, error) {
	if err := in.requireFields("email", "password"); err != nil {
		return dtos.LoginCommand{}, err
	}
	return dtos.LoginCommand{Email: in.Fields["email"], Password: in.Fields["password"]}, nil
}

// ProfileUpdate строит частичное обновление профиля.
func ProfileUpdate(in Input, userID uuid.UUID) (dtos.ProfileUpdateCommand, error) {
	cmd := dtos.ProfileUpdateCommand{UserID: userID}

	if raw, ok := in.field("first_name"); ok {
		v, err := valueobjects.NewFirstName(raw)
		if err != nil {
			return cmd, err
		}
		cmd.FirstName = &v
	}
	if raw, ok := in.field("last_name"); ok {
		v, err := valueobjects.NewLastName(raw)
		if err != nil {
			return cmd, err
		}
		cmd.LastName = &v
	}
	if raw, ok := in.field("about"); ok {
		v, err := valueobjects.NewDescription(raw)
		if err != nil {
			return cmd, err
		}
		cmd.About = &v
	}
	if raw, ok := in.field("phone"); ok {
		v, err := valueobjects.NewPhoneNumber(raw)
		if err != nil {
			return cmd, err
		}
		cmd.Phone = &v
	}
	return cmd, nil
}
