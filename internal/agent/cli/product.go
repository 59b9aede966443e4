package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/api"
)

// NewProductCmd группирует команды каталога.
//
// list и get доступны без входа, create/update/delete требуют роль admin на сервере.
//
//	shopctl product create --name Shirt --price 19.99 --size M --image ./shirt.png
//	shopctl product list
//	shopctl product get <id>
//	shopctl product update <id> --name Shirt --price 17 --size L
//	shopctl product delete <id>
func NewProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Каталог товаров",
	}

	cmd.AddCommand(newProductCreateCmd(app))
	cmd.AddCommand(newProductUpdateCmd(app))
	cmd.AddCommand(newProductListCmd(app))
	cmd.AddCommand(newProductGetCmd(app))
	cmd.AddCommand(newProductDeleteCmd(app))

	return cmd
}

func productFlags(cmd *cobra.Command, form *api.ProductForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "product name")
	cmd.Flags().StringVar(&form.Price, "price", "", "price, numeric")
	cmd.Flags().StringVar(&form.Size, "size", "", "size label")
	cmd.Flags().StringVar(&form.ImagePath, "image", "", "path to image file (max 5MB)")
}

func newProductCreateCmd(app *App) *cobra.Command {
	var form api.ProductForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать товар (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := app.accessToken()
			if err != nil {
				return err
			}

			p, err := NewAPIClient(app.ServerURL).CreateProduct(access, form)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}

	productFlags(cmd, &form)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("size")
	cmd.MarkFlagRequired("image")

	return cmd
}

func newProductUpdateCmd(app *App) *cobra.Command {
	var form api.ProductForm

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Обновить товар (admin); без --image картинка остаётся прежней",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := app.accessToken()
			if err != nil {
				return err
			}

			p, err := NewAPIClient(app.ServerURL).UpdateProduct(access, args[0], form)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}

	productFlags(cmd, &form)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("size")

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список товаров, новые сверху",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := NewAPIClient(app.ServerURL).ListProducts()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no products")
				return nil
			}
			for _, p := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\t%s\t%s\n", p.ID, p.Name, p.Price, p.Size, p.Image)
			}
			return nil
		},
	}
}

func newProductGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Показать товар",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := NewAPIClient(app.ServerURL).GetProduct(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func newProductDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить товар (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := app.accessToken()
			if err != nil {
				return err
			}

			p, err := NewAPIClient(app.ServerURL).DeleteProduct(access, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
}
