package bootstrap

import (
	"log"

	"github.com/clerk/clerk-sdk-go/v2"
)

// InitClerk 用已加载的环境配置初始化 Clerk SDK
func InitClerk(env *Env) {
	if env.ClerkSecretKey == "" {
		log.Fatal("❌ 缺少必需环境变量: CLERK_SECRET_KEY")
	}
	clerk.SetKey(env.ClerkSecretKey)

	log.Println("✅ Clerk 初始化成功")
}
