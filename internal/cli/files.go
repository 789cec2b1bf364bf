package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tlesnik44-code/origocode/internal/vpath"
)

func newFilesCommand() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "files",
		Short: "Operate on project files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "project name (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newLsCommand(&project))
	cmd.AddCommand(newCatCommand(&project))
	cmd.AddCommand(newPutCommand(&project))
	cmd.AddCommand(newAppendCommand(&project))
	cmd.AddCommand(newRmCommand(&project))
	cmd.AddCommand(newRenameCommand(&project))
	cmd.AddCommand(newMvCommand(&project))
	cmd.AddCommand(newMkdirCommand(&project))

	return cmd
}

func newLsCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a project folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			p, err := vpath.Resolve(raw)
			if err != nil {
				return err
			}

			listing, err := newHierarchyStore(getConfig(cmd)).List(cmd.Context(), *project, p)
			if err != nil {
				return err
			}

			fmt.Println(listing.Path + "/")
			for _, f := range listing.Folders {
				fmt.Printf("  %s/\n", f.Name)
			}
			for _, f := range listing.Files {
				fmt.Printf("  %s\n", f.Name)
			}
			return nil
		},
	}
}

func newCatCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}

			result, err := newHierarchyStore(getConfig(cmd)).Read(cmd.Context(), *project, p)
			if err != nil {
				return err
			}
			fmt.Print(result.Content)
			return nil
		},
	}
}

func newPutCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "put <path> [local-file]",
		Short: "Save a file, creating missing folders",
		Long:  "Saves the content of a local file (or stdin when omitted) to the given project path, replacing any existing file.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}

			var content []byte
			if len(args) == 2 {
				content, err = os.ReadFile(args[1])
			} else {
				content, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}

			result, err := newHierarchyStore(getConfig(cmd)).Save(cmd.Context(), *project, p, string(content))
			if err != nil {
				return err
			}
			if result.Created {
				fmt.Println("Created", result.FileID)
			} else {
				fmt.Println("Replaced", result.FileID)
			}
			if result.WebViewLink != "" {
				fmt.Println(result.WebViewLink)
			}
			return nil
		},
	}
}

func newAppendCommand(project *string) *cobra.Command {
	var noNewline bool

	cmd := &cobra.Command{
		Use:   "append <path> <text>",
		Short: "Append a line of text to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}

			_, err = newHierarchyStore(getConfig(cmd)).Append(cmd.Context(), *project, p, args[1], !noNewline)
			return err
		},
	}

	cmd.Flags().BoolVar(&noNewline, "no-newline", false, "append without a separating newline")

	return cmd
}

func newRmCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Move a file to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}
			return newHierarchyStore(getConfig(cmd)).Remove(cmd.Context(), *project, p)
		},
	}
}

func newRenameCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a file in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vpath.ValidateLeafName(args[1]); err != nil {
				return err
			}
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}
			_, err = newHierarchyStore(getConfig(cmd)).Rename(cmd.Context(), *project, p, args[1])
			return err
		},
	}
}

func newMvCommand(project *string) *cobra.Command {
	var noCreateParents bool

	cmd := &cobra.Command{
		Use:   "mv <path> <dest-folder>",
		Short: "Move a file to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}
			dest, err := vpath.Resolve(args[1])
			if err != nil {
				return err
			}
			return newHierarchyStore(getConfig(cmd)).Move(cmd.Context(), *project, p, dest, !noCreateParents)
		},
	}

	cmd.Flags().BoolVar(&noCreateParents, "no-create-parents", false, "fail when the destination folder does not exist")

	return cmd
}

func newMkdirCommand(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := vpath.Resolve(args[0])
			if err != nil {
				return err
			}
			folderID, err := newHierarchyStore(getConfig(cmd)).Mkdir(cmd.Context(), *project, p)
			if err != nil {
				return err
			}
			fmt.Println(folderID)
			return nil
		},
	}
}
