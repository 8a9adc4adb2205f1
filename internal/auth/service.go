package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fpbg/internal/logs"
	"fpbg/internal/models"
	"fpbg/internal/pending"
	"fpbg/internal/repo"
)

// Mailer envoie le code OTP par courriel. Optionnel : le code est de toute
// façon renvoyé à l'appelant pour une remise pilotée par le client.
type Mailer interface {
	EnvoyerOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type Service struct {
	users    *repo.UserStore
	pendings pending.Store
	tokens   *Tokens
	mailer   Mailer // peut être nil

	otpTTL    time.Duration
	otpDigits int
}

func NewService(users *repo.UserStore, pendings pending.Store, tokens *Tokens, mailer Mailer, otpTTL time.Duration, otpDigits int) *Service {
	return &Service{
		users:     users,
		pendings:  pendings,
		tokens:    tokens,
		mailer:    mailer,
		otpTTL:    otpTTL,
		otpDigits: otpDigits,
	}
}

func (s *Service) Tokens() *Tokens { return s.tokens }

// RegisterInput couvre les deux voies d'inscription; les champs Org* ne sont
// lus que sur la voie organisation.
type RegisterInput struct {
	Email          string
	NomUtilisateur string
	MotDePasse     string
	Prenom         string
	Nom            string
	Telephone      string

	OrgNom              string
	OrgSigle            string
	OrgTypeOrganisation string
	OrgAdresse          string
	OrgTelephone        string
	OrgSiteWeb          string
	OrgDescription      string
}

// RegisterResult : l'OTP est retourné à l'appelant (choix assumé : remise
// par le client) en plus de l'éventuel envoi serveur.
type RegisterResult struct {
	Email    string
	OTP      string
	UserName string
}

// SessionResult est la réponse commune de verify-otp et login.
type SessionResult struct {
	Token string
	User  *models.Utilisateur
	Type  string // agent | organisation | admin
}

// RegisterAgent démarre l'inscription d'un porteur individuel.
func (s *Service) RegisterAgent(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	return s.register(ctx, in, pending.TypeUser)
}

// RegisterOrganisation démarre l'inscription d'une organisation : le compte
// et son profil seront créés ensemble au verify-otp.
func (s *Service) RegisterOrganisation(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if strings.TrimSpace(in.OrgNom) == "" {
		return nil, models.ErrValidation("le nom de l'organisation est requis")
	}
	return s.register(ctx, in, pending.TypeOrganisation)
}

func (s *Service) register(ctx context.Context, in RegisterInput, typ string) (*RegisterResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, models.ErrValidation("adresse email invalide")
	}
	if len(in.MotDePasse) < 6 {
		return nil, models.ErrValidation("mot de passe trop court (6 caractères minimum)")
	}

	emailPris, nomPris, err := s.users.IdentifiantsPris(ctx, in.Email, in.NomUtilisateur)
	if err != nil {
		return nil, err
	}
	if emailPris {
		return nil, models.ErrConflict("cet email est déjà utilisé")
	}
	if nomPris {
		return nil, models.ErrConflict("ce nom d'utilisateur est déjà utilisé")
	}

	hash, err := HashPassword(in.MotDePasse)
	if err != nil {
		return nil, err
	}
	code, err := GenererOTP(s.otpDigits)
	if err != nil {
		return nil, err
	}

	reg := &pending.Registration{
		Type:      typ,
		OTP:       code,
		ExpiresAt: time.Now().Add(s.otpTTL),

		Email:          in.Email,
		NomUtilisateur: in.NomUtilisateur,
		MotDePasse:     hash,
		Prenom:         in.Prenom,
		Nom:            in.Nom,
		Telephone:      in.Telephone,

		OrgNom:              in.OrgNom,
		OrgSigle:            in.OrgSigle,
		OrgTypeOrganisation: in.OrgTypeOrganisation,
		OrgAdresse:          in.OrgAdresse,
		OrgTelephone:        in.OrgTelephone,
		OrgSiteWeb:          in.OrgSiteWeb,
		OrgDescription:      in.OrgDescription,
	}
	// Put écrase une éventuelle inscription précédente pour le même email.
	if err := s.pendings.Put(ctx, in.Email, reg); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.EnvoyerOTP(ctx, in.Email, code, s.otpTTL); err != nil {
			// L'envoi serveur est un confort : le code part dans la réponse.
			logs.Logger.Warnf("envoi OTP échoué pour %s: %v", in.Email, err)
		}
	}

	return &RegisterResult{Email: in.Email, OTP: code, UserName: in.NomUtilisateur}, nil
}

// VerifyOTP valide le code puis promeut l'inscription en compte persistant
// (transaction unique, profil organisation compris), supprime l'entrée en
// attente et émet le jeton de session.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*SessionResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	reg, err := s.pendings.Get(ctx, email)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, models.ErrValidation("aucune inscription en attente pour cet email")
	}
	if err != nil {
		return nil, err
	}
	if reg.Expiree(time.Now()) {
		// Entrée expirée supprimée à la détection : un second essai avec le
		// même code répondra "aucune inscription en attente".
		_ = s.pendings.Delete(ctx, email)
		return nil, models.ErrValidation("code expiré, veuillez recommencer l'inscription")
	}
	if reg.OTP != strings.TrimSpace(code) {
		return nil, models.ErrValidation("code incorrect")
	}

	u, err := s.users.PromouvoirInscription(ctx, reg)
	if err != nil {
		return nil, err
	}
	_ = s.pendings.Delete(ctx, email)

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	typ := reg.Type
	if typ == pending.TypeUser {
		typ = models.CompteAgent
	}
	return &SessionResult{Token: token, User: u, Type: typ}, nil
}

// ResendOTP régénère code et expiration sur l'inscription en attente.
func (s *Service) ResendOTP(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	reg, err := s.pendings.Get(ctx, email)
	if errors.Is(err, pending.ErrNotFound) {
		return "", models.ErrValidation("aucune inscription en attente pour cet email")
	}
	if err != nil {
		return "", err
	}
	code, err := GenererOTP(s.otpDigits)
	if err != nil {
		return "", err
	}
	reg.OTP = code
	reg.ExpiresAt = time.Now().Add(s.otpTTL)
	if err := s.pendings.Put(ctx, email, reg); err != nil {
		return "", err
	}
	if s.mailer != nil {
		if err := s.mailer.EnvoyerOTP(ctx, email, code, s.otpTTL); err != nil {
			logs.Logger.Warnf("renvoi OTP échoué pour %s: %v", email, err)
		}
	}
	return code, nil
}

// Login : recherche par email ou nom d'utilisateur dans la table unique
// d'identité. Erreur distincte pour un compte non vérifié.
func (s *Service) Login(ctx context.Context, identifiant, motDePasse string) (*SessionResult, error) {
	identifiant = strings.TrimSpace(identifiant)
	u, err := s.users.FindByIdentifiant(ctx, identifiant)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUnauthorized("identifiants invalides")
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.MotDePasse, motDePasse) {
		return nil, models.ErrUnauthorized("identifiants invalides")
	}
	if !u.EstVerifie() {
		return nil, models.ErrUnauthorized("compte non vérifié : validez le code reçu par email")
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, User: u, Type: u.TypeCompte}, nil
}

// Resolve recharge l'identité persistée (GET /me, refresh).
func (s *Service) Resolve(ctx context.Context, userID uint) (*models.Utilisateur, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUnauthorized("compte introuvable")
	}
	return u, err
}

// Refresh réémet un jeton pour un compte encore valide.
func (s *Service) Refresh(ctx context.Context, userID uint) (*SessionResult, error) {
	u, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, User: u, Type: u.TypeCompte}, nil
}
