package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core/auth"
)

func (cli *commandLine) credentials(name string, args []string) (auth.Credentials, error) {
	fs := cli.flagSet(name)
	uname := fs.String("username", "", "The username. The password will be prompted next.")
	if err := cli.parse(fs, args); err != nil {
		return auth.Credentials{}, err
	}
	if isBlank(*uname) {
		fs.Usage()
		return auth.Credentials{}, errHelp
	}
	pwd, err := cli.readPassword(fs)
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{Username: *uname, Password: pwd}, nil
}

func (cli *commandLine) register(args []string) error {
	creds, err := cli.credentials("register", args)
	if err != nil {
		return err
	}
	ctx, cancel := cli.newContext()
	defer cancel()

	if err = cli.auth.Register(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Registration successful! You can now log in.")
	return nil
}

func (cli *commandLine) login(args []string) error {
	creds, err := cli.credentials("login", args)
	if err != nil {
		return err
	}
	ctx, cancel := cli.newContext()
	defer cancel()

	sess, err := cli.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s.\n", sess.Username)
	return nil
}

func (cli *commandLine) logout(args []string) error {
	if err := cli.parse(cli.flagSet("logout"), args); err != nil {
		return err
	}
	ctx, cancel := cli.newContext()
	defer cancel()

	if err := cli.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) whoami(args []string) error {
	if err := cli.parse(cli.flagSet("whoami"), args); err != nil {
		return err
	}
	ctx, cancel := cli.newContext()
	defer cancel()

	sess, err := cli.auth.Current(ctx)
	switch errors.Cause(err) {
	case nil:
		fmt.Fprintln(cli.out, sess.Username)
		return nil
	case auth.ErrNoSession, auth.ErrSessionExpired:
		fmt.Fprintln(cli.out, errors.Cause(err).Error())
		return nil
	default:
		return err
	}
}

func (cli *commandLine) printConfig(args []string) error {
	if err := cli.parse(cli.flagSet("config"), args); err != nil {
		return err
	}
	out, err := cli.conf.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(cli.out, out)
	return nil
}
