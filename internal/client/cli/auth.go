package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) error {
	username, err := a.readLine("username: ")
	if err != nil {
		return err
	}
	password, err := a.readPassword("password: ")
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, username, password); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}
	fmt.Println("Registered. You can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := a.readLine("username: ")
	if err != nil {
		return err
	}
	password, err := a.readPassword("password: ")
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	a.userName = username
	fmt.Println("Logged in. Entries synced.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.userName = ""
	fmt.Println("Logged out. Your entries stay on this device.")
	return nil
}
