package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/commands"
	"foodshare-service/internal/config"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUserCmd(env *environment) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var (
		name   string
		email  string
		phone  string
		role   string
		asJSON bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print a bearer token for it",
		Long: `Create a user of any role, including ADMIN, and print a bearer token.

Examples:
  foodsharectl user create --name Root --email root@example.com --role ADMIN
  foodsharectl user create --name Alice --email alice@example.com --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(cfg *config.Config, store repository.Store, logger *zap.Logger) error {
				accounts := service.NewAccountService(service.Deps{Store: store, Logger: logger})
				user, err := accounts.CreateUser(cmd.Context(), commands.CreateUserCommand{
					Name:  name,
					Email: email,
					Phone: phone,
					Role:  domain.Role(strings.ToUpper(role)),
				})
				if err != nil {
					return err
				}
				token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL(), logger).GenerateToken(user)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return json.NewEncoder(out).Encode(map[string]string{
						"id":    user.ID.String(),
						"email": user.Email,
						"role":  string(user.Role),
						"token": token,
					})
				}
				fmt.Fprintf(out, "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
				fmt.Fprintln(out, token)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	createCmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	createCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	createCmd.Flags().StringVar(&role, "role", "USER", "USER, RESTAURANT or ADMIN")
	createCmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createCmd)
	return userCmd
}

func newTokenCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Print a fresh bearer token for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(cfg *config.Config, store repository.Store, logger *zap.Logger) error {
				user, err := store.Users().FindByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(args[0])))
				if err != nil {
					return err
				}
				token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL(), logger).GenerateToken(user)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
}
