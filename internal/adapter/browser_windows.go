package adapter

import "golang.org/x/sys/windows"

func openFolder(path string) error {
	return windows.ShellExecute(0, nil, windows.StringToUTF16Ptr(path), nil, nil, windows.SW_SHOWNORMAL)
}
