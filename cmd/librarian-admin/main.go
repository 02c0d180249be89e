// librarian-admin 馆员账号与事件运维工具
//
//	librarian-admin create --username alice --password 's3cret-pass'
//	librarian-admin passwd --username alice          # 从标准输入读取新密码
//	librarian-admin events --keys 'book.*'           # 跟踪图书事件
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}
